package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/blob"
	"github.com/dropDatabas3/rescuetrack/internal/events"
	httpx "github.com/dropDatabas3/rescuetrack/internal/http"
	"github.com/dropDatabas3/rescuetrack/internal/http/controllers"
	authsvc "github.com/dropDatabas3/rescuetrack/internal/http/services/auth"
	casessvc "github.com/dropDatabas3/rescuetrack/internal/http/services/cases"
	collabsvc "github.com/dropDatabas3/rescuetrack/internal/http/services/collaboration"
	photossvc "github.com/dropDatabas3/rescuetrack/internal/http/services/photos"
	jwtx "github.com/dropDatabas3/rescuetrack/internal/jwt"
	"github.com/dropDatabas3/rescuetrack/internal/rate"
	"github.com/dropDatabas3/rescuetrack/internal/store/memory"
)

type app struct {
	handler http.Handler
	hub     *events.Hub
	store   *memory.Store
}

func newApp(t *testing.T, limiter rate.Limiter) *app {
	t.Helper()

	issuer, err := jwtx.NewIssuer("rescuetrack-test", "", time.Minute)
	require.NoError(t, err)

	store := memory.New()
	hub := events.NewHub()
	t.Cleanup(hub.Close)

	auth := authsvc.New(authsvc.Deps{Store: store, Issuer: issuer, RefreshTTL: time.Hour})
	cases := casessvc.New(casessvc.Deps{Store: store, Dispatcher: hub})
	collab := collabsvc.New(collabsvc.Deps{Store: store})
	photos := photossvc.New(photossvc.Deps{Store: store, Blobs: blob.NewMemoryStore()})

	handler := httpx.NewRouter(httpx.RouterDeps{
		Issuer:         issuer,
		Limiter:        limiter,
		Auth:           controllers.NewAuthController(auth),
		Cases:          controllers.NewCasesController(cases),
		Collaboration:  controllers.NewCollaborationController(collab),
		Photos:         controllers.NewPhotosController(photos),
		Realtime:       controllers.NewRealtimeController(hub),
		Health:         controllers.NewHealthController(nil),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &app{handler: handler, hub: hub, store: store}
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rec, &env)
	return env.Error.Code
}

type sessionBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (a *app) register(t *testing.T, email string) sessionBody {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "rescate123", "name": "María", "role": "rescuer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess sessionBody
	decode(t, rec, &sess)
	return sess
}

func TestHealthEndpoints(t *testing.T) {
	a := newApp(t, nil)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/healthz", "", nil).Code)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/readyz", "", nil).Code)
}

func TestUnknownRoute(t *testing.T) {
	a := newApp(t, nil)
	rec := a.do(t, http.MethodGet, "/v1/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "RESOURCE_NOT_FOUND", errCode(t, rec))
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t, nil)
	sess := a.register(t, "maria@rescue.dev")

	rec := a.do(t, http.MethodGet, "/v1/auth/me", sess.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email string `json:"email"`
	}
	decode(t, rec, &me)
	require.Equal(t, "maria@rescue.dev", me.Email)

	// Login incorrecto no distingue causa.
	rec = a.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "maria@rescue.dev", "password": "incorrecta",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "AUTH_INVALID_CREDENTIALS", errCode(t, rec))

	// Rotación de refresh: un solo uso.
	rec = a.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var next sessionBody
	decode(t, rec, &next)
	require.NotEqual(t, sess.RefreshToken, next.RefreshToken)

	rec = a.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "TOKEN_INVALID", errCode(t, rec))

	// Logout revoca; la cadena muere.
	rec = a.do(t, http.MethodPost, "/v1/auth/logout", next.AccessToken, map[string]string{
		"refresh_token": next.RefreshToken,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refresh_token": next.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodPost, "/v1/cases", "", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHENTICATED", errCode(t, rec))

	rec = a.do(t, http.MethodPost, "/v1/cases", "token-roto", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "TOKEN_INVALID", errCode(t, rec))
}

func TestCaseLifecycle(t *testing.T) {
	a := newApp(t, nil)
	sess := a.register(t, "maria@rescue.dev")

	rec := a.do(t, http.MethodPost, "/v1/cases", sess.AccessToken, map[string]any{
		"species":        "dog",
		"description":    "perro flaco en la banquina",
		"urgency":        "high",
		"location_found": "Ruta 9 km 42, Campana",
		"injuries":       "pata trasera lastimada",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID                   string `json:"id"`
		Status               string `json:"status"`
		LocationFoundGeneral string `json:"location_found_general"`
	}
	decode(t, rec, &created)
	require.Equal(t, "reported", created.Status)
	require.Equal(t, "Campana Area", created.LocationFoundGeneral)

	// Lectura anónima redactada.
	rec = a.do(t, http.MethodGet, "/v1/cases/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var anon struct {
		LocationFound string `json:"location_found"`
		Injuries      string `json:"injuries"`
	}
	decode(t, rec, &anon)
	require.Empty(t, anon.LocationFound)
	require.Empty(t, anon.Injuries)

	// Listado público y stats.
	rec = a.do(t, http.MethodGet, "/v1/cases?species=dog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Total)

	rec = a.do(t, http.MethodGet, "/v1/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		ActiveCases int `json:"active_cases"`
	}
	decode(t, rec, &stats)
	require.Equal(t, 1, stats.ActiveCases)

	// Update con filtro inválido de validación.
	rec = a.do(t, http.MethodPut, "/v1/cases/"+created.ID, sess.AccessToken, map[string]string{
		"status": "lost",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", errCode(t, rec))

	rec = a.do(t, http.MethodPut, "/v1/cases/"+created.ID, sess.AccessToken, map[string]string{
		"status": "at_vet",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Mis casos.
	rec = a.do(t, http.MethodGet, "/v1/users/me/cases?filter=my_cases", sess.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Equal(t, 1, list.Total)

	// Borrado por un tercero: prohibido. Por el owner: 204.
	other := a.register(t, "otro@rescue.dev")
	rec = a.do(t, http.MethodDelete, "/v1/cases/"+created.ID, other.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "PERMISSION_DENIED", errCode(t, rec))

	rec = a.do(t, http.MethodDelete, "/v1/cases/"+created.ID, sess.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/v1/cases/"+created.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollaboratorRoutes(t *testing.T) {
	a := newApp(t, nil)
	owner := a.register(t, "owner@rescue.dev")
	vet := a.register(t, "vet@rescue.dev")

	rec := a.do(t, http.MethodPost, "/v1/cases", owner.AccessToken, map[string]string{
		"species": "cat", "description": "gata con cría", "urgency": "medium",
		"location_found": "Plaza Italia, Palermo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = a.do(t, http.MethodPost, "/v1/cases/"+created.ID+"/collaborators", owner.AccessToken, map[string]string{
		"user_id": vet.User.ID, "role_label": "Treating Vet",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// La nota del colaborador entra.
	rec = a.do(t, http.MethodPost, "/v1/cases/"+created.ID+"/notes", vet.AccessToken, map[string]string{
		"note": "control OK",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Transferencia y baja del colaborador.
	rec = a.do(t, http.MethodPost, "/v1/cases/"+created.ID+"/transfer", owner.AccessToken, map[string]string{
		"new_owner_id": vet.User.ID,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodDelete, "/v1/cases/"+created.ID+"/collaborators/"+owner.User.ID, vet.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPhotoUpload(t *testing.T) {
	a := newApp(t, nil)
	sess := a.register(t, "maria@rescue.dev")

	rec := a.do(t, http.MethodPost, "/v1/cases", sess.AccessToken, map[string]string{
		"species": "dog", "description": "perro", "urgency": "low",
		"location_found": "Ruta 9 km 42, Campana",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="dog.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mp.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("\xff\xd8\xff fake jpeg"))
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/cases/"+created.ID+"/photos", &buf)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	up := httptest.NewRecorder()
	a.handler.ServeHTTP(up, req)
	require.Equal(t, http.StatusCreated, up.Code, up.Body.String())

	var photo struct {
		ID        string `json:"id"`
		IsPrimary bool   `json:"is_primary"`
	}
	decode(t, up, &photo)
	require.True(t, photo.IsPrimary)

	rec = a.do(t, http.MethodDelete, "/v1/photos/"+photo.ID, sess.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	a := newApp(t, rate.NewMemoryLimiter())

	body := map[string]string{"email": "maria@rescue.dev", "password": "incorrecta"}
	for i := 0; i < 5; i++ {
		rec := a.do(t, http.MethodPost, "/v1/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "intento %d", i+1)
	}

	rec := a.do(t, http.MethodPost, "/v1/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "RATE_LIMITED", errCode(t, rec))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestEventStream(t *testing.T) {
	a := newApp(t, nil)
	sess := a.register(t, "maria@rescue.dev")

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected", strings.TrimRight(line, "\n"))

	// Una mutación publica al canal del stream.
	rec := a.do(t, http.MethodPost, "/v1/cases", sess.AccessToken, map[string]string{
		"species": "dog", "description": "perro", "urgency": "low",
		"location_found": "Ruta 9 km 42, Campana",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var eventLine string
	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			eventLine = strings.TrimSpace(line)
			break
		}
	}
	require.Equal(t, fmt.Sprintf("event: %s", events.EventCaseCreated), eventLine)

	data, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(data, "data: "))
	var payload struct {
		Case struct {
			Species string `json:"species"`
		} `json:"case"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(data), "data: ")), &payload))
	require.Equal(t, "dog", payload.Case.Species)
}
