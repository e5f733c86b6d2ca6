package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/tatame-app/tatame/apps/api/echo"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/testutil"
)

func Test_accountApi_login(t *testing.T) {
	env, app := setup(t)

	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	acad, acadAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rickson", "rickson@tatame.app", "52998224725", acad.ID))

	invalidCreds := marchallObj(t, httpErr{Error: "invalid credentials"})

	tests := []struct {
		name        string
		username    string
		password    string
		wantCode    int
		wantUser    int
		wantStudent int
		wantRole    string
	}{
		{name: "general admin", username: "helio@tatame.app", password: testPwd, wantCode: http.StatusOK, wantUser: admin.ID, wantRole: user.RoleGeneralAdmin},
		{name: "academy admin", username: " GB@tatame.app ", password: testPwd, wantCode: http.StatusOK, wantUser: acadAdmin.ID, wantRole: user.RoleAcademyAdmin},
		{name: "student by CPF", username: "529.982.247-25", password: testPwd, wantCode: http.StatusOK, wantStudent: stu.ID, wantRole: user.RoleStudent},
		{name: "wrong password", username: "helio@tatame.app", password: "nope", wantCode: http.StatusUnauthorized},
		{name: "unknown user", username: "nobody@tatame.app", password: testPwd, wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := marchallObj(t, map[string]string{"username": tt.username, "password": tt.password})
			rec := do(app, http.MethodPost, "/api/auth/login", "", body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: invalidCreds}, rec)
				return
			}
			var resp echoapi.LoginResponse
			unmarshal(t, rec, &resp)
			if tt.wantStudent > 0 {
				assert.Equal(t, tt.wantStudent, resp.User.StudentID.Int)
			} else {
				assert.Equal(t, tt.wantUser, resp.User.ID)
			}
			assert.Equal(t, tt.wantRole, resp.User.Role)
			assert.NotEmpty(t, resp.Token)
			assert.NotEmpty(t, resp.RefreshToken)
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/auth/login", "", []byte(`{}`))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		}, rec)
	})
}

func Test_accountApi_session(t *testing.T) {
	env, app := setup(t)
	testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)

	rec := do(app, http.MethodPost, "/api/auth/login", "",
		marchallObj(t, map[string]string{"username": "helio@tatame.app", "password": testPwd}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login echoapi.LoginResponse
	unmarshal(t, rec, &login)

	refreshBody := marchallObj(t, echoapi.RefreshRequest{RefreshToken: login.RefreshToken})

	t.Run("me", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/auth/me", login.Token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var me user.User
		unmarshal(t, rec, &me)
		assert.Equal(t, login.User.ID, me.ID)
		assert.Equal(t, "helio@tatame.app", me.Email)
	})

	t.Run("refresh", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/auth/refresh", "", refreshBody)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp echoapi.RefreshResponse
		unmarshal(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)

		rec = do(app, http.MethodGet, "/api/auth/me", resp.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refresh with unknown token", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/auth/refresh", "", marchallObj(t, echoapi.RefreshRequest{RefreshToken: "lol"}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired refresh token"}),
		}, rec)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/auth/logout", login.Token)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = do(app, http.MethodPost, "/api/auth/refresh", "", refreshBody)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func Test_accountApi_tokens(t *testing.T) {
	_, app := setup(t)

	runHttpTests(t, app, []httpTest{
		{name: "missing token", path: "/api/auth/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "invalid token", path: "/api/auth/me", token: "not.a.jwt", wantCode: http.StatusForbidden, wantData: marchallObj(t, errBadToken)},
		{name: "logout requires a token", method: http.MethodPost, path: "/api/auth/logout", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
	})
}

func Test_accountApi_deletedUserToken(t *testing.T) {
	env, app := setup(t)
	acad, acadAdmin := testutil.CreateAcademy(t, env, "Alliance", "alliance@tatame.app", testPwd)
	token := getToken(t, env, acadAdmin)

	if err := env.Svcs.Academy.Delete(context.Background(), 0, acad.ID); err != nil {
		t.Fatalf("Academy.Delete() failed: %v", err)
	}
	rec := do(app, http.MethodGet, "/api/auth/me", token)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errBadToken)}, rec)
}

func Test_accountApi_register(t *testing.T) {
	env, app := setup(t)
	testutil.CreateAcademy(t, env, "Checkmat", "checkmat@tatame.app", testPwd)

	body := func(email string) []byte {
		return marchallObj(t, map[string]string{
			"academyName": "Atos",
			"name":        "Andre",
			"email":       email,
			"password":    testPwd,
		})
	}

	rec := do(app, http.MethodPost, "/api/auth/register", "", body("Atos@Tatame.app"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp echoapi.LoginResponse
	unmarshal(t, rec, &resp)
	assert.Equal(t, "atos@tatame.app", resp.User.Email)
	assert.Equal(t, user.RoleAcademyAdmin, resp.User.Role)
	assert.True(t, resp.User.AcademyID.Valid)
	assert.NotEmpty(t, resp.Token)

	rec = do(app, http.MethodPost, "/api/auth/register", "", body("checkmat@tatame.app"))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
