package facade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	authentities "github.com/Conte777/fanscraper/internal/domain/auth/entities"
	contententities "github.com/Conte777/fanscraper/internal/domain/content/entities"
	contenterrors "github.com/Conte777/fanscraper/internal/domain/content/errors"
	mediaerrors "github.com/Conte777/fanscraper/internal/domain/media/errors"
	mediataxonomy "github.com/Conte777/fanscraper/internal/domain/media/taxonomy"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
	"github.com/Conte777/fanscraper/internal/infrastructure/rules"
)

// fakeUseCase is a mock implementation of deps.UseCase
type fakeUseCase struct {
	sessions []*authentities.AuthSession
	scoped   int
	removed  []int64
}

func (f *fakeUseCase) Login(_ context.Context, creds authentities.Credentials, guest bool) (*authentities.AuthSession, error) {
	session := authentities.NewAuthSession(creds.ID, creds.Username, guest, nil)
	f.sessions = append(f.sessions, session)
	return session, nil
}

func (f *fakeUseCase) LoginScoped(ctx context.Context, creds authentities.Credentials, guest bool, fn func(context.Context, *authentities.AuthSession) error) error {
	f.scoped++
	return fn(ctx, authentities.NewAuthSession(creds.ID, creds.Username, guest, nil))
}

func (f *fakeUseCase) LoginAll(context.Context, []authentities.Credentials, int) *deps.LoginReport {
	return &deps.LoginReport{}
}

func (f *fakeUseCase) FindAuth(id int64) (*authentities.AuthSession, bool) {
	for _, s := range f.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (f *fakeUseCase) ListAuths() []*authentities.AuthSession { return f.sessions }

func (f *fakeUseCase) RemoveAuth(_ context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeUseCase) SweepInvalid(context.Context) (deps.SweepReport, error) {
	return deps.SweepReport{Checked: len(f.sessions)}, nil
}

func (f *fakeUseCase) Close(context.Context) error { return nil }

func newAPI(uc *fakeUseCase) (*API, *metrics.Metrics) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	provider := rules.NewProvider("http://rules.local/rules.json", nil, time.Second, zerolog.Nop())
	return NewAPI("OnlyFans", uc, provider, m), m
}

func TestAPI_LifecyclePassthrough(t *testing.T) {
	uc := &fakeUseCase{}
	api, _ := newAPI(uc)
	ctx := context.Background()

	session, err := api.Login(ctx, authentities.Credentials{ID: 5, Username: "eve"}, false)
	require.NoError(t, err)

	found, ok := api.FindAuth(5)
	require.True(t, ok)
	require.Same(t, session, found)
	require.Len(t, api.Auths(), 1)

	var yielded int64
	err = api.LoginScoped(ctx, authentities.Credentials{ID: 6}, false, func(_ context.Context, s *authentities.AuthSession) error {
		yielded = s.ID
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), yielded)
	require.Equal(t, 1, uc.scoped)

	require.NoError(t, api.RemoveAuth(ctx, 5))
	require.Equal(t, []int64{5}, uc.removed)

	report, err := api.SweepInvalid(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Checked)
}

func TestAPI_FindUserAcrossSessions(t *testing.T) {
	first := authentities.NewAuthSession(1, "a", false, nil)
	second := authentities.NewAuthSession(2, "b", false, nil)
	second.AddUser(&authentities.User{ID: 77, Username: "Creator"})

	api, _ := newAPI(&fakeUseCase{sessions: []*authentities.AuthSession{first, second}})

	user, owner, ok := api.FindUser("creator")
	require.True(t, ok)
	require.Equal(t, int64(77), user.ID)
	require.Same(t, second, owner)

	user, owner, ok = api.FindUser("77")
	require.True(t, ok)
	require.Equal(t, "Creator", user.Username)
	require.Same(t, second, owner)

	_, _, ok = api.FindUser("nobody")
	require.False(t, ok)
}

func TestAPI_ClassifyMedia(t *testing.T) {
	api, m := newAPI(&fakeUseCase{})

	category, err := api.ClassifyMedia("gif")
	require.NoError(t, err)
	require.Equal(t, mediataxonomy.Video, category)

	_, err = api.ClassifyMedia("hologram")
	require.ErrorIs(t, err, mediaerrors.ErrNoMediaTypeFound)
	require.Equal(t, float64(1), testutil.ToFloat64(m.ClassificationFailures.WithLabelValues("media")))

	require.Equal(t, []mediataxonomy.Category{mediataxonomy.Image, mediataxonomy.Video, mediataxonomy.Audio, mediataxonomy.Text}, api.MediaCategories())
}

func TestAPI_ClassifyContent(t *testing.T) {
	api, m := newAPI(&fakeUseCase{})

	key, err := api.ClassifyContent(contententities.MassMessage{})
	require.NoError(t, err)
	require.Equal(t, contententities.KeyMassMessage, key)

	plural, err := api.ContentKey(&contententities.Story{}, true)
	require.NoError(t, err)
	require.Equal(t, "Stories", plural)

	_, err = api.ClassifyContent(struct{}{})
	require.ErrorIs(t, err, contenterrors.ErrUnknownContentType)

	parsed, err := api.ParseContentKey("post")
	require.NoError(t, err)
	require.Equal(t, contententities.KeyPost, parsed)

	_, err = api.ParseContentKey("reel")
	require.True(t, errors.Is(err, contenterrors.ErrUnknownKey))

	require.Equal(t, float64(1), testutil.ToFloat64(m.ClassificationFailures.WithLabelValues("content")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ClassificationFailures.WithLabelValues("content_key")))
	require.Contains(t, api.CollectionKeys(), "Highlights")
}

func TestAPI_ReadyBeforeRulesFetch(t *testing.T) {
	api, _ := newAPI(&fakeUseCase{})

	require.False(t, api.RulesLoaded())
	require.ErrorIs(t, api.Ready(context.Background()), rules.ErrNotStarted)
}

func TestAPI_NewSubscription(t *testing.T) {
	api, _ := newAPI(&fakeUseCase{})
	user := &authentities.User{ID: 7}
	subscriber := authentities.NewAuthSession(1, "fan", false, nil)

	_, err := api.NewSubscription([]byte(`{"subscribedBy": true}`), user, subscriber)
	require.Error(t, err)
}
