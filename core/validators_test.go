package core

import "testing"

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		name  string
		pwd   string
		attrs []string
		want  string
	}{
		{name: "too short", pwd: "abc", want: pwdMinLenTag},
		{name: "whitespace", pwd: "oss tatame", want: pwdNoSpaceTag},
		{name: "similar to email", pwd: "joao@tatame", attrs: []string{"Joao", "joao@tatame.com"}, want: pwdAttrSimTag},
		{name: "empty attrs ignored", pwd: "guard-pass9", attrs: []string{"", ""}},
		{name: "ok", pwd: "kimura#2024", attrs: []string{"Ana Souza", "ana@tatame.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := passwordPolicyTag(tt.pwd, tt.attrs...); got != tt.want {
				t.Errorf("passwordPolicyTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidTime(t *testing.T) {
	for in, want := range map[string]bool{"06:30": true, "23:59": true, "24:00": false, "6:30": false, "": false} {
		if got := ValidTime(in); got != want {
			t.Errorf("ValidTime(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	if err := CheckPasswordPolicy("kimura#2024", "Ana"); err != nil {
		t.Errorf("CheckPasswordPolicy() = %v, want nil", err)
	}
	err := CheckPasswordPolicy("abc")
	if !IsValidationError(err) {
		t.Fatalf("CheckPasswordPolicy() = %v, want a ValidationError", err)
	}
	if got := err.(*ValidationError).Fields[0].Error; got != pwdMinLenText {
		t.Errorf("field error = %q, want %q", got, pwdMinLenText)
	}
}
