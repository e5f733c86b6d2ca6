package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "date", in: "2024-03-08", want: NewDate(2024, time.March, 8)},
		{name: "timestamp", in: "2024-03-08T22:10:00-03:00", want: NewDate(2024, time.March, 8)},
		{name: "garbage", in: "08/03/2024", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(payload{Date: NewDate(2024, time.January, 31)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"date":"2024-01-31"}` {
		t.Errorf("json.Marshal() = %s", data)
	}

	data, _ = json.Marshal(payload{})
	if string(data) != `{"date":null}` {
		t.Errorf("json.Marshal(zero) = %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"date":"2023-12-01"}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Date.Equal(NewDate(2023, time.December, 1)) {
		t.Errorf("json.Unmarshal() = %v", p.Date)
	}
	if err := json.Unmarshal([]byte(`{"date":null}`), &p); err != nil || !p.Date.IsZero() {
		t.Errorf("json.Unmarshal(null) = %v, %v", p.Date, err)
	}
	if err := json.Unmarshal([]byte(`{"date":20231201}`), &p); err == nil {
		t.Error("json.Unmarshal(number) expected an error")
	}
}

func TestDateScanValue(t *testing.T) {
	var d Date
	if err := d.Scan([]byte("2022-06-15")); err != nil || !d.Equal(NewDate(2022, time.June, 15)) {
		t.Errorf("Scan([]byte) = %v, %v", d, err)
	}
	if err := d.Scan(time.Date(2022, time.June, 16, 23, 59, 0, 0, time.UTC)); err != nil || !d.Equal(NewDate(2022, time.June, 16)) {
		t.Errorf("Scan(time.Time) = %v, %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan(nil) = %v, %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) expected an error")
	}

	if v, _ := (Date{}).Value(); v != nil {
		t.Errorf("Value(zero) = %v, want nil", v)
	}
	if v, _ := NewDate(2022, time.June, 15).Value(); v != "2022-06-15" {
		t.Errorf("Value() = %v", v)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	if got := d.AddDays(2); !got.Equal(NewDate(2024, time.March, 1)) {
		t.Errorf("AddDays(2) = %v", got)
	}
	if got := d.DaysUntil(NewDate(2024, time.March, 5)); got != 6 {
		t.Errorf("DaysUntil() = %d, want 6", got)
	}
	if got := d.DaysUntil(NewDate(2024, time.February, 20)); got != -8 {
		t.Errorf("DaysUntil() = %d, want -8", got)
	}

	NowFunc = func() time.Time { return time.Date(2024, time.May, 3, 23, 30, 0, 0, time.UTC) }
	defer func() { NowFunc = time.Now }()
	if got := Today(); !got.Equal(NewDate(2024, time.May, 3)) {
		t.Errorf("Today() = %v", got)
	}
}
