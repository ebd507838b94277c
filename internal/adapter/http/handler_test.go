package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"repuestos-ads/internal/core/domain"
	"repuestos-ads/internal/core/port"
)

// stubUseCase implements port.AdUseCase through overridable function
// fields. Unset methods return zero values.
type stubUseCase struct {
	requestAd          func(ctx context.Context, req domain.SlotRequest) (*port.SelectionResult, error)
	registerClick      func(ctx context.Context, token string) (string, bool, error)
	registerConversion func(ctx context.Context, token string, revenue int64) error
	getStats           func(ctx context.Context, req port.StatsReq) (*port.StatsResp, error)
	createAd           func(ctx context.Context, ad *domain.Advertisement) error
	updateAd           func(ctx context.Context, ad *domain.Advertisement) error
	deleteAd           func(ctx context.Context, id uuid.UUID) error
	getAd              func(ctx context.Context, id uuid.UUID) (*port.AdDetails, error)
	listAds            func(ctx context.Context) ([]domain.Advertisement, error)
	changeStatus       func(ctx context.Context, id uuid.UUID, status domain.Status) error
}

func (s *stubUseCase) RequestAd(ctx context.Context, req domain.SlotRequest) (*port.SelectionResult, error) {
	if s.requestAd == nil {
		return &port.SelectionResult{}, nil
	}
	return s.requestAd(ctx, req)
}

func (s *stubUseCase) RegisterClick(ctx context.Context, token string) (string, bool, error) {
	if s.registerClick == nil {
		return "", false, nil
	}
	return s.registerClick(ctx, token)
}

func (s *stubUseCase) RegisterConversion(ctx context.Context, token string, revenue int64) error {
	if s.registerConversion == nil {
		return nil
	}
	return s.registerConversion(ctx, token, revenue)
}

func (s *stubUseCase) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	if s.getStats == nil {
		return &port.StatsResp{}, nil
	}
	return s.getStats(ctx, req)
}

func (s *stubUseCase) CreateAd(ctx context.Context, ad *domain.Advertisement) error {
	if s.createAd == nil {
		return nil
	}
	return s.createAd(ctx, ad)
}

func (s *stubUseCase) UpdateAd(ctx context.Context, ad *domain.Advertisement) error {
	if s.updateAd == nil {
		return nil
	}
	return s.updateAd(ctx, ad)
}

func (s *stubUseCase) DeleteAd(ctx context.Context, id uuid.UUID) error {
	if s.deleteAd == nil {
		return nil
	}
	return s.deleteAd(ctx, id)
}

func (s *stubUseCase) GetAd(ctx context.Context, id uuid.UUID) (*port.AdDetails, error) {
	if s.getAd == nil {
		return &port.AdDetails{}, nil
	}
	return s.getAd(ctx, id)
}

func (s *stubUseCase) ListAds(ctx context.Context) ([]domain.Advertisement, error) {
	if s.listAds == nil {
		return nil, nil
	}
	return s.listAds(ctx)
}

func (s *stubUseCase) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	if s.changeStatus == nil {
		return nil
	}
	return s.changeStatus(ctx, id, status)
}

func newTestServer(t *testing.T, svc port.AdUseCase) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(svc, logger, prometheus.NewRegistry())
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleAdRequest(t *testing.T) {
	adID := uuid.New()
	svc := &stubUseCase{
		requestAd: func(_ context.Context, req domain.SlotRequest) (*port.SelectionResult, error) {
			require.Equal(t, domain.DisplayFooter, req.DisplayType)
			require.Equal(t, domain.PlatformAndroid, req.Platform)
			return &port.SelectionResult{
				AdID:     &adID,
				Creative: &domain.Creative{Title: "demo"},
				Token:    "tok-1",
				ClickURL: "/api/v1/ad/click/tok-1",
			}, nil
		},
	}
	srv := newTestServer(t, svc)

	body := `{"displayType":"footer","platform":"android","userId":"u1"}`
	resp, err := http.Post(srv.URL+"/api/v1/ad/request", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got port.SelectionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got.AdID)
	require.Equal(t, adID, *got.AdID)
	require.Equal(t, "tok-1", got.Token)
}

func TestHandleAdRequestNoFill(t *testing.T) {
	srv := newTestServer(t, &stubUseCase{})

	body := `{"displayType":"fullscreen","platform":"ios"}`
	resp, err := http.Post(srv.URL+"/api/v1/ad/request", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"adId":null`)
}

func TestHandleAdRequestRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, &stubUseCase{})

	cases := []string{
		`not json`,
		`{"displayType":"banner","platform":"android"}`,
		`{"displayType":"footer","platform":"both"}`,
		`{"displayType":"footer","platform":"windows"}`,
	}
	for _, body := range cases {
		resp, err := http.Post(srv.URL+"/api/v1/ad/request", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestHandleAdClickRedirects(t *testing.T) {
	svc := &stubUseCase{
		registerClick: func(_ context.Context, token string) (string, bool, error) {
			require.Equal(t, "tok-1", token)
			return "https://example.com/p/1", true, nil
		},
	}
	srv := newTestServer(t, svc)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := client.Get(srv.URL + "/api/v1/ad/click/tok-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "https://example.com/p/1", resp.Header.Get("Location"))
}

func TestHandleAdClickOrphan(t *testing.T) {
	svc := &stubUseCase{
		registerClick: func(context.Context, string) (string, bool, error) {
			return "", false, port.ErrOrphanClick
		},
	}
	srv := newTestServer(t, svc)

	resp, err := http.Get(srv.URL + "/api/v1/ad/click/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleAdClickWithoutNavigationURL(t *testing.T) {
	svc := &stubUseCase{
		registerClick: func(context.Context, string) (string, bool, error) {
			return "", true, nil
		},
	}
	srv := newTestServer(t, svc)

	resp, err := http.Get(srv.URL + "/api/v1/ad/click/tok-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHandleAdConversion(t *testing.T) {
	var gotRevenue int64
	svc := &stubUseCase{
		registerConversion: func(_ context.Context, token string, revenue int64) error {
			require.Equal(t, "tok-1", token)
			gotRevenue = revenue
			return nil
		},
	}
	srv := newTestServer(t, svc)

	resp, err := http.Post(srv.URL+"/api/v1/ad/conversion/tok-1", "application/json",
		strings.NewReader(`{"revenue":4990}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.EqualValues(t, 4990, gotRevenue)
}

func TestHandleAdConversionRejectsNegativeRevenue(t *testing.T) {
	srv := newTestServer(t, &stubUseCase{})

	resp, err := http.Post(srv.URL+"/api/v1/ad/conversion/tok-1", "application/json",
		strings.NewReader(`{"revenue":-5}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminErrorMapping(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid config", domain.ErrInvalidConfig, http.StatusBadRequest},
		{"not found", port.ErrNotFound, http.StatusNotFound},
		{"active ad", port.ErrAdActive, http.StatusConflict},
		{"bad transition", port.ErrInvalidTransition, http.StatusConflict},
		{"other", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubUseCase{
				updateAd: func(context.Context, *domain.Advertisement) error { return tc.err },
			}
			srv := newTestServer(t, svc)

			req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/admin/ads/"+id.String(),
				strings.NewReader(`{"creative":{"title":"x"}}`))
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestHandleCreateAd(t *testing.T) {
	svc := &stubUseCase{
		createAd: func(_ context.Context, ad *domain.Advertisement) error {
			ad.ID = uuid.New()
			ad.Status = domain.StatusDraft
			return nil
		},
	}
	srv := newTestServer(t, svc)

	body := `{"creative":{"title":"launch"},"displayType":"footer","targetPlatform":"both",
		"schedule":{"startDate":"2026-06-01","endDate":"2026-06-30","startTime":"00:00","endTime":"23:59"},
		"displaySettings":{"frequency":3,"priority":5,"isActive":true}}`
	resp, err := http.Post(srv.URL+"/api/v1/admin/ads/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got domain.Advertisement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotEqual(t, uuid.Nil, got.ID)
	require.Equal(t, domain.StatusDraft, got.Status)
	require.Equal(t, "launch", got.Creative.Title)
}

func TestHandleChangeStatus(t *testing.T) {
	id := uuid.New()
	var gotStatus domain.Status
	svc := &stubUseCase{
		changeStatus: func(_ context.Context, gotID uuid.UUID, status domain.Status) error {
			require.Equal(t, id, gotID)
			gotStatus = status
			return nil
		},
	}
	srv := newTestServer(t, svc)

	resp, err := http.Post(srv.URL+"/api/v1/admin/ads/"+id.String()+"/status",
		"application/json", strings.NewReader(`{"status":"pending"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, domain.StatusPending, gotStatus)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubUseCase{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
