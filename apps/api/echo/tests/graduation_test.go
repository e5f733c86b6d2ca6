package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/testutil"
)

func Test_graduationApi(t *testing.T) {
	env, app := setup(t)

	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	gb, gbAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rickson", "rickson@tatame.app", "52998224725", gb.ID))
	stuUsr, err := env.Svcs.User.GetByEmail(context.Background(), stu.Email)
	require.NoError(t, err)

	white := testutil.CreateGraduation(t, env, "Branca", 0, 0)
	blue := testutil.CreateGraduation(t, env, "Azul", 0, 24)
	black := testutil.CreateGraduation(t, env, "Preta", 0, 36)

	adminToken := getToken(t, env, admin)
	gbToken := getToken(t, env, gbAdmin)
	stuToken := getToken(t, env, stuUsr)

	coral := graduation.NewGraduation{Name: "Coral", Color: "red/black", MinTimeInMonths: 84, Type: graduation.TypeAdult}
	bluePath := fmt.Sprintf("/api/graduations/%d", blue.ID)

	runHttpTests(t, app, []httpTest{
		{name: "auth required", path: "/api/graduations", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "students list", path: "/api/graduations", token: stuToken, wantData: marchallList(t, white, blue, black)},
		{name: "academy admins list", path: "/api/graduations", token: gbToken, wantData: marchallList(t, white, blue, black)},
		{
			name: "academy admins cannot create", method: http.MethodPost, path: "/api/graduations", token: gbToken,
			body: marchallObj(t, coral), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "students cannot create", method: http.MethodPost, path: "/api/graduations", token: stuToken,
			body: marchallObj(t, coral), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "academy admins cannot update", method: http.MethodPut, path: bluePath, token: gbToken,
			body: marchallObj(t, coral), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "academy admins cannot delete", method: http.MethodDelete, path: bluePath, token: gbToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "academy admins cannot reorder", method: http.MethodPut, path: "/api/graduations/reorder", token: gbToken,
			body: marchallObj(t, graduation.ReorderRequest{IDs: []int{black.ID, blue.ID, white.ID}}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "update unknown id", method: http.MethodPut, path: "/api/graduations/999", token: adminToken,
			body: marchallObj(t, coral), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: graduation.ErrNotFound.Error()}),
		},
	})

	var created graduation.Graduation
	t.Run("create appends", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/graduations", adminToken, marchallObj(t, coral))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		unmarshal(t, rec, &created)
		assert.Equal(t, "Coral", created.Name)
		assert.Equal(t, 4, created.Rank)
	})

	t.Run("invalid input", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/graduations", adminToken, marchallObj(t, graduation.NewGraduation{Type: "senior"}))
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		var fields map[string]string
		unmarshal(t, rec, &fields)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "type")
	})

	t.Run("update", func(t *testing.T) {
		ug := graduation.UpdateGraduation{Name: "Azul", Color: "blue", MinTimeInMonths: 30, Type: graduation.TypeAdult}
		rec := do(app, http.MethodPut, bluePath, adminToken, marchallObj(t, ug))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var grad graduation.Graduation
		unmarshal(t, rec, &grad)
		assert.Equal(t, 30, grad.MinTimeInMonths)
		assert.Equal(t, blue.Rank, grad.Rank)
	})

	ranksOf := func(t *testing.T) map[int]int {
		t.Helper()
		rec := do(app, http.MethodGet, "/api/graduations", adminToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var grads []graduation.Graduation
		unmarshal(t, rec, &grads)
		ranks := make(map[int]int, len(grads))
		for _, g := range grads {
			ranks[g.ID] = g.Rank
		}
		return ranks
	}

	t.Run("reorder", func(t *testing.T) {
		body := marchallObj(t, graduation.ReorderRequest{IDs: []int{created.ID, black.ID, blue.ID, white.ID}})
		rec := do(app, http.MethodPut, "/api/graduations/reorder", adminToken, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, map[int]int{created.ID: 1, black.ID: 2, blue.ID: 3, white.ID: 4}, ranksOf(t))
	})

	t.Run("reorder rejects bad ids", func(t *testing.T) {
		tests := []struct {
			name      string
			ids       []int
			wantField string
		}{
			{name: "unknown id", ids: []int{white.ID, 999}, wantField: "graduation 999 does not exist"},
			{name: "duplicate id", ids: []int{white.ID, white.ID}, wantField: fmt.Sprintf("graduation %d is listed more than once", white.ID)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				before := ranksOf(t)
				rec := do(app, http.MethodPut, "/api/graduations/reorder", adminToken, marchallObj(t, graduation.ReorderRequest{IDs: tt.ids}))
				checkCodeAndData(t, httpTest{
					wantCode: http.StatusBadRequest,
					wantData: marchallObj(t, map[string]string{"ids": tt.wantField}),
				}, rec)
				assert.Equal(t, before, ranksOf(t))
			})
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(app, http.MethodDelete, fmt.Sprintf("/api/graduations/%d", created.ID), adminToken)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = do(app, http.MethodDelete, fmt.Sprintf("/api/graduations/%d", created.ID), adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, ranksOf(t), created.ID)
	})
}
