package facade

import (
	"context"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	authentities "github.com/Conte777/fanscraper/internal/domain/auth/entities"
	contententities "github.com/Conte777/fanscraper/internal/domain/content/entities"
	contenttaxonomy "github.com/Conte777/fanscraper/internal/domain/content/taxonomy"
	mediataxonomy "github.com/Conte777/fanscraper/internal/domain/media/taxonomy"
	subentities "github.com/Conte777/fanscraper/internal/domain/subscription/entities"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
	"github.com/Conte777/fanscraper/internal/infrastructure/rules"
)

// API is the top-level client for one platform: session lifecycle plus taxonomies
type API struct {
	Name string

	auth    deps.UseCase
	rules   *rules.Provider
	metrics *metrics.Metrics
}

// NewAPI creates the platform facade
func NewAPI(name string, auth deps.UseCase, provider *rules.Provider, m *metrics.Metrics) *API {
	return &API{
		Name:    name,
		auth:    auth,
		rules:   provider,
		metrics: m,
	}
}

// Ready waits for the dynamic rules needed by every signed request
func (a *API) Ready(ctx context.Context) error {
	_, err := a.rules.Wait(ctx)
	return err
}

// RulesLoaded reports whether the dynamic rules are available
func (a *API) RulesLoaded() bool {
	return a.rules.Ready()
}

func (a *API) Login(ctx context.Context, creds authentities.Credentials, guest bool) (*authentities.AuthSession, error) {
	return a.auth.Login(ctx, creds, guest)
}

func (a *API) LoginScoped(
	ctx context.Context,
	creds authentities.Credentials,
	guest bool,
	fn func(ctx context.Context, session *authentities.AuthSession) error,
) error {
	return a.auth.LoginScoped(ctx, creds, guest, fn)
}

func (a *API) FindAuth(id int64) (*authentities.AuthSession, bool) {
	return a.auth.FindAuth(id)
}

func (a *API) Auths() []*authentities.AuthSession {
	return a.auth.ListAuths()
}

func (a *API) RemoveAuth(ctx context.Context, id int64) error {
	return a.auth.RemoveAuth(ctx, id)
}

func (a *API) SweepInvalid(ctx context.Context) (deps.SweepReport, error) {
	return a.auth.SweepInvalid(ctx)
}

// FindUser searches the accounts discovered by every registered session
func (a *API) FindUser(identifier string) (*authentities.User, *authentities.AuthSession, bool) {
	for _, session := range a.auth.ListAuths() {
		if user, ok := session.FindUser(identifier); ok {
			return user, session, true
		}
	}
	return nil, nil, false
}

// ClassifyContent resolves a content object to its canonical key
func (a *API) ClassifyContent(v any) (contententities.Key, error) {
	key, err := contenttaxonomy.Classify(v)
	if err != nil {
		a.metrics.RecordClassificationFailure("content")
	}
	return key, err
}

// ContentKey returns the singular or plural key of a content object
func (a *API) ContentKey(v any, plural bool) (string, error) {
	key, err := contenttaxonomy.ToKey(v, plural)
	if err != nil {
		a.metrics.RecordClassificationFailure("content")
	}
	return key, err
}

// ParseContentKey resolves a free-form key name
func (a *API) ParseContentKey(raw string) (contententities.Key, error) {
	key, err := contenttaxonomy.ParseKey(raw)
	if err != nil {
		a.metrics.RecordClassificationFailure("content_key")
	}
	return key, err
}

// ClassifyMedia resolves a raw media type
func (a *API) ClassifyMedia(raw string) (mediataxonomy.Category, error) {
	category, err := mediataxonomy.ClassifyMedia(raw)
	if err != nil {
		a.metrics.RecordClassificationFailure("media")
	}
	return category, err
}

func (a *API) MediaCategories() []mediataxonomy.Category {
	return mediataxonomy.ListCategories()
}

func (a *API) CollectionKeys() []string {
	return contenttaxonomy.CollectionKeys()
}

// NewSubscription builds a subscription snapshot between user and subscriber
func (a *API) NewSubscription(payload []byte, user *authentities.User, subscriber *authentities.AuthSession) (*subentities.Relationship, error) {
	return subentities.NewRelationship(payload, user, subscriber)
}
