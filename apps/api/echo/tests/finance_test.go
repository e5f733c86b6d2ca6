package tests

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tatame-app/tatame/core/dashboard"
	"github.com/tatame-app/tatame/core/finance"
	"github.com/tatame-app/tatame/core/settings"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/services/export"
	"github.com/tatame-app/tatame/testutil"
)

func Test_financeApi(t *testing.T) {
	env, app := setup(t)

	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	gb, gbAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)
	alliance, _ := testutil.CreateAcademy(t, env, "Alliance", "alliance@tatame.app", testPwd)

	// due on the 10th, unpaid
	rickson := testutil.CreateStudent(t, env, testutil.NewStudent("Rickson", "rickson@tatame.app", "52998224725", gb.ID))
	ns := testutil.NewStudent("Royce", "royce@tatame.app", "11144477735", gb.ID)
	ns.PaymentStatus = student.PaymentPaid
	testutil.CreateStudent(t, env, ns)
	cobrinha := testutil.CreateStudent(t, env, testutil.NewStudent("Cobrinha", "cobrinha@tatame.app", "12345678909", alliance.ID))

	ricksonUsr, err := env.Svcs.User.GetByEmail(context.Background(), rickson.Email)
	require.NoError(t, err)

	adminToken := getToken(t, env, admin)
	gbToken := getToken(t, env, gbAdmin)

	entryIDs := func(entries []finance.Entry) []int {
		ids := make([]int, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.Student.ID)
		}
		return ids
	}

	tests := []struct {
		name          string
		path          string
		token         string
		wantReminders []int
		wantOverdue   []int
	}{
		{name: "reminder window", path: "/api/finance/status?date=2026-10-07", token: adminToken, wantReminders: []int{rickson.ID, cobrinha.ID}, wantOverdue: []int{}},
		{name: "due day", path: "/api/finance/status?date=2026-10-10", token: gbToken, wantReminders: []int{rickson.ID}, wantOverdue: []int{}},
		{name: "overdue window", path: "/api/finance/status?date=2026-10-13", token: gbToken, wantReminders: []int{}, wantOverdue: []int{rickson.ID}},
		{name: "past the overdue window", path: "/api/finance/status?date=2026-10-20", token: gbToken, wantReminders: []int{}, wantOverdue: []int{}},
		{name: "academy filter", path: "/api/finance/status?date=2026-10-13&academyId=" + strconv.Itoa(alliance.ID), token: adminToken, wantReminders: []int{}, wantOverdue: []int{cobrinha.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(app, http.MethodGet, tt.path, tt.token)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var status finance.Status
			unmarshal(t, rec, &status)
			assert.ElementsMatch(t, tt.wantReminders, entryIDs(status.Reminders))
			assert.ElementsMatch(t, tt.wantOverdue, entryIDs(status.Overdue))
		})
	}

	runHttpTests(t, app, []httpTest{
		{name: "students are not allowed", path: "/api/finance/status", token: getToken(t, env, ricksonUsr), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "invalid date", path: "/api/finance/status?date=13/10/2026", token: gbToken, wantCode: http.StatusBadRequest},
	})

	t.Run("export", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/finance/export?date=2026-10-13", gbToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "finance_2026-10-13.xlsx")

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Reminders", "Overdue"}, f.GetSheetList())
		rows, err := f.GetRows("Overdue")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/dashboard", gbToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var sum dashboard.Summary
		unmarshal(t, rec, &sum)
		assert.Equal(t, 2, sum.Students)
		assert.Equal(t, 1, sum.PaidStudents)
		assert.Equal(t, 1, sum.Academies)

		rec = do(app, http.MethodGet, "/api/dashboard", adminToken)
		unmarshal(t, rec, &sum)
		assert.Equal(t, 3, sum.Students)
		assert.Equal(t, 2, sum.Academies)
	})
}

func Test_settingsApi(t *testing.T) {
	env, app := setup(t)
	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	_, gbAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)

	ts := settings.Default()
	ts.SystemName = "Tatame BJJ"
	ts.MonthlyFeeAmount = 150

	runHttpTests(t, app, []httpTest{
		{name: "public read", path: "/api/settings", wantData: marchallObj(t, settings.Default())},
		{name: "news are public", path: "/api/news"},
		{
			name: "academy admins cannot edit", method: http.MethodPut, path: "/api/settings", token: getToken(t, env, gbAdmin),
			body: marchallObj(t, ts), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "general admin edits", method: http.MethodPut, path: "/api/settings", token: getToken(t, env, admin), body: marchallObj(t, ts), wantData: marchallObj(t, ts)},
		{name: "saved", path: "/api/settings", wantData: marchallObj(t, ts)},
	})

	t.Run("invalid color", func(t *testing.T) {
		bad := ts
		bad.PrimaryColor = "blue"
		rec := do(app, http.MethodPut, "/api/settings", getToken(t, env, admin), marchallObj(t, bad))
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		var fields map[string]string
		unmarshal(t, rec, &fields)
		assert.Contains(t, fields, "primaryColor")
	})
}

func Test_userApi_query(t *testing.T) {
	env, app := setup(t)
	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	gb, gbAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)
	_, allianceAdmin := testutil.CreateAcademy(t, env, "Alliance", "alliance@tatame.app", testPwd)
	rickson := testutil.CreateStudent(t, env, testutil.NewStudent("Rickson", "rickson@tatame.app", "52998224725", gb.ID))
	ricksonUsr, err := env.Svcs.User.GetByEmail(context.Background(), rickson.Email)
	require.NoError(t, err)

	gbToken := getToken(t, env, gbAdmin)
	adminToken := getToken(t, env, admin)

	t.Run("general admin sees everyone", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/users", adminToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.ElementsMatch(t, []int{admin.ID, gbAdmin.ID, allianceAdmin.ID, ricksonUsr.ID}, idsOf(t, rec))
	})

	t.Run("role filter", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/users?role="+user.RoleAcademyAdmin, adminToken)
		assert.ElementsMatch(t, []int{gbAdmin.ID, allianceAdmin.ID}, idsOf(t, rec))
	})

	t.Run("academy admin sees their academy", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/users", gbToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.ElementsMatch(t, []int{gbAdmin.ID, ricksonUsr.ID}, idsOf(t, rec))
	})

	runHttpTests(t, app, []httpTest{
		{name: "students are not allowed", path: "/api/users", token: getToken(t, env, ricksonUsr), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "activity logs require a general admin", path: "/api/activity-logs", token: gbToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
	})

	t.Run("activity logs", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/activity-logs", adminToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, idsOf(t, rec))
	})
}
