package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/testutil"
)

func Test_professorApi(t *testing.T) {
	env, app := setup(t)

	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	gb, gbAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)
	alliance, allianceAdmin := testutil.CreateAcademy(t, env, "Alliance", "alliance@tatame.app", testPwd)
	carlos := testutil.CreateProfessor(t, env, "Carlos Gracie", "52998224725", gb.ID)
	fabio := testutil.CreateProfessor(t, env, "Fabio Gurgel", "11144477735", alliance.ID)
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rickson", "rickson@tatame.app", "12345678909", gb.ID))
	stuUsr, err := env.Svcs.User.GetByEmail(context.Background(), stu.Email)
	require.NoError(t, err)

	adminToken := getToken(t, env, admin)
	gbToken := getToken(t, env, gbAdmin)
	allianceToken := getToken(t, env, allianceAdmin)
	carlosPath := fmt.Sprintf("/api/professors/%d", carlos.ID)

	t.Run("list is scoped", func(t *testing.T) {
		tests := []struct {
			name    string
			path    string
			token   string
			wantIDs []int
		}{
			{name: "general admin", path: "/api/professors", token: adminToken, wantIDs: []int{carlos.ID, fabio.ID}},
			{name: "general admin filters", path: fmt.Sprintf("/api/professors?academyId=%d", alliance.ID), token: adminToken, wantIDs: []int{fabio.ID}},
			{name: "academy admin", path: "/api/professors", token: gbToken, wantIDs: []int{carlos.ID}},
			{name: "academy admin ignores academyId", path: fmt.Sprintf("/api/professors?academyId=%d", alliance.ID), token: gbToken, wantIDs: []int{carlos.ID}},
			{name: "search", path: "/api/professors?search=gurgel", token: adminToken, wantIDs: []int{fabio.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := do(app, http.MethodGet, tt.path, tt.token)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				assert.ElementsMatch(t, tt.wantIDs, idsOf(t, rec))
			})
		}
	})

	runHttpTests(t, app, []httpTest{
		{name: "auth required", path: "/api/professors", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "students are not allowed", path: "/api/professors", token: getToken(t, env, stuUsr), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "own academy professor", path: carlosPath, token: gbToken, wantData: marchallObj(t, carlos)},
		{name: "other academy professor", path: carlosPath, token: allianceToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "general admin reads any", path: carlosPath, token: adminToken, wantData: marchallObj(t, carlos)},
		{
			name: "unknown id", path: "/api/professors/999", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: professor.ErrNotFound.Error()}),
		},
		{
			name: "other academy cannot edit", method: http.MethodPut, path: carlosPath, token: allianceToken,
			body: marchallObj(t, professor.UpdateProfessor{Name: "Carlos", CPF: carlos.CPF}), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	})

	t.Run("academy admin creates in their academy", func(t *testing.T) {
		body := marchallObj(t, professor.NewProfessor{
			Name:      "Andre Galvao",
			CPF:       "390.533.447-05",
			AcademyID: null.IntFrom(alliance.ID),
		})
		rec := do(app, http.MethodPost, "/api/professors", gbToken, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var prof professor.Professor
		unmarshal(t, rec, &prof)
		assert.Equal(t, null.IntFrom(gb.ID), prof.AcademyID)
		assert.Equal(t, "39053344705", prof.CPF)

		rec = do(app, http.MethodPost, "/api/professors", gbToken, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		var fields map[string]string
		unmarshal(t, rec, &fields)
		assert.Contains(t, fields, "cpf")
	})

	t.Run("invalid input", func(t *testing.T) {
		body := marchallObj(t, professor.NewProfessor{CPF: "00000000000"})
		rec := do(app, http.MethodPost, "/api/professors", gbToken, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		var fields map[string]string
		unmarshal(t, rec, &fields)
		assert.Contains(t, fields, "name")
		assert.Equal(t, "invalid CPF", fields["cpf"])
	})

	t.Run("own admin updates", func(t *testing.T) {
		body := marchallObj(t, professor.UpdateProfessor{
			Name:         "Carlos Gracie Jr",
			Registration: "CBJJ-001",
			CPF:          carlos.CPF,
			AcademyID:    null.IntFrom(alliance.ID),
		})
		rec := do(app, http.MethodPut, carlosPath, gbToken, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var prof professor.Professor
		unmarshal(t, rec, &prof)
		assert.Equal(t, "Carlos Gracie Jr", prof.Name)
		assert.Equal(t, "CBJJ-001", prof.Registration)
		assert.Equal(t, null.IntFrom(gb.ID), prof.AcademyID)
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(app, http.MethodDelete, carlosPath, allianceToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(app, http.MethodDelete, carlosPath, gbToken)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = do(app, http.MethodGet, carlosPath, adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
