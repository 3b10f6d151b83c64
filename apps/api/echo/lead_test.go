package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-landing/core/lead"
)

func validLead() lead.NewLead {
	return lead.NewLead{
		SchoolName:    "Greenfield Academy",
		ContactPerson: "Jane Doe",
		Email:         "jane@greenfield.cd",
		Phone:         "+91 98765 43210",
		StudentsCount: lead.Students0To500,
		Plan:          "Basic",
	}
}

func Test_leadApi_submit(t *testing.T) {
	app := setup(t)

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/leads", marchallObj(t, validLead()))
		app.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var receipt lead.Receipt
		unmarchall(t, rec, &receipt)
		assert.Equal(t, "Thank You, Jane Doe!", receipt.Title)
		assert.Equal(t, "Your request for the Basic Plan has been received.", receipt.Message)
		assert.NotEmpty(t, receipt.Lead.ID)
		assert.Equal(t, lead.BillingAnnual, receipt.Lead.Billing)
		assert.Len(t, app.mailSvc.SentMessages(), 2)
	})

	invalid := validLead()
	invalid.Email = "jane"
	invalid.StudentsCount = ""
	tests := []httpTest{
		{
			name: "invalid fields", body: marchallObj(t, invalid), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":          "email must be a valid email address",
				"students_count": "this field is required",
			}),
		},
		{name: "malformed body", body: []byte(`{"school_name": `), wantCode: http.StatusBadRequest},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/leads"
	}
	runHTTPTests(t, app, tests)
}

func Test_adminApi_login(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "missing credentials", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Username: "admin", Password: "lmao"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong username", body: marchallObj(t, LoginRequest{Username: "root", Password: adminPassword}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/admin/login"
	}
	runHTTPTests(t, app, tests)

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/admin/login", marchallObj(t, LoginRequest{Username: " Admin ", Password: adminPassword}))
		app.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res LoginResponse
		unmarchall(t, rec, &res)
		require.NotEmpty(t, res.Token)

		// the token opens the admin endpoints
		req, rec = newAuthRequest(http.MethodGet, "/api/admin/leads", res.Token)
		app.srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled without a password hash", func(t *testing.T) {
		app.conf.Admin.PasswordHash = ""
		req, rec := newRequest(http.MethodPost, "/api/admin/login", marchallObj(t, LoginRequest{Username: "admin", Password: adminPassword}))
		app.srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_leadApi_admin(t *testing.T) {
	app := setup(t)

	var leads []lead.Lead
	for _, school := range []string{"Zenith High", "Alpha School", "Meadow College"} {
		nl := validLead()
		nl.SchoolName = school
		receipt, err := app.leadSvc.Submit(context.Background(), nl)
		require.NoError(t, err)
		leads = append(leads, receipt.Lead)
	}
	zenith, alpha, meadow := leads[0], leads[1], leads[2]

	adminToken := app.getToken(t, getAdminClaims(app.conf))
	notAdmin := getAdminClaims(app.conf)
	notAdmin.IsAdmin = false

	tests := []httpTest{
		{name: "auth required", path: "/api/admin/leads", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/api/admin/leads", token: app.getToken(t, notAdmin),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "search", path: "/api/admin/leads?search=school", token: adminToken, wantData: marchallObj(t, []lead.Lead{alpha})},
		{name: "search (unknown)", path: "/api/admin/leads?search=lol", token: adminToken, wantData: []byte(`[]`)},
		{
			name: "order by school_name", path: "/api/admin/leads?ordering=school_name", token: adminToken,
			wantData: marchallObj(t, []lead.Lead{alpha, meadow, zenith}),
		},
		{
			name: "order by -school_name", path: "/api/admin/leads?ordering=-school_name", token: adminToken,
			wantData: marchallObj(t, []lead.Lead{zenith, meadow, alpha}),
		},
		{name: "by id", path: "/api/admin/leads/" + alpha.ID, token: adminToken, wantData: marchallObj(t, alpha)},
		{name: "by id (unknown)", path: "/api/admin/leads/lol", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
	}
	runHTTPTests(t, app, tests)

	t.Run("all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/leads", adminToken)
		app.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []lead.Lead
		unmarchall(t, rec, &got)
		assert.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt), "newest first")
		}
	})
}
