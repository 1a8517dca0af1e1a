package tenantdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for credential resolution.
var (
	// ErrMissingTenantKey is returned when the caller supplied no user id.
	ErrMissingTenantKey = errors.New("user id is required")
	// ErrRecordNotFound is returned by a RecordStore when no record exists
	// for the key. The resolver wraps it with the key for the caller.
	ErrRecordNotFound = errors.New("tenant record not found")
)

// RecordNotFoundError reports that the record store holds nothing for a key.
type RecordNotFoundError struct {
	Key string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("User %s not found in Firebase", e.Key)
}

// IncompleteCredentialsError reports a record missing endpoint or secret in
// every known location.
type IncompleteCredentialsError struct {
	Key     string
	Missing []string
}

func (e *IncompleteCredentialsError) Error() string {
	return fmt.Sprintf("Supabase credentials incomplete for user %s: missing %s", e.Key, strings.Join(e.Missing, ", "))
}

// Record is the raw per-user document from the record store. Provisioning
// has written these documents in two generations: newer ones nest the
// database credentials under "profile", older ones keep them at the root.
type Record map[string]any

// fieldRef addresses a string field either at the record root (Nested == "")
// or inside a nested map.
type fieldRef struct {
	Nested string
	Key    string
}

// Fallback order per logical attribute. Nested locations win; the list is
// the single source of truth for which spellings are accepted.
var (
	endpointFields = []fieldRef{
		{Nested: "profile", Key: "endpointUrl"},
		{Key: "endpointUrl"},
	}
	secretFields = []fieldRef{
		{Nested: "profile", Key: "servicerole"},
		{Key: "servicerole"},
		{Key: "accessSecret"},
	}
)

func (r Record) lookup(refs []fieldRef) string {
	for _, ref := range refs {
		scope := map[string]any(r)
		if ref.Nested != "" {
			nested, ok := r[ref.Nested].(map[string]any)
			if !ok {
				continue
			}
			scope = nested
		}
		if value, ok := scope[ref.Key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// EndpointURL returns the tenant database endpoint after fallback, or empty.
func (r Record) EndpointURL() string { return r.lookup(endpointFields) }

// AccessSecret returns the tenant service-role key after fallback, or empty.
func (r Record) AccessSecret() string { return r.lookup(secretFields) }

// RecordStore fetches the per-user credential record.
type RecordStore interface {
	Lookup(ctx context.Context, key string) (Record, error)
}

// Resolver turns a tenant key into a request-scoped database client. It is
// stateless: every call re-reads the record store so credential rotations
// take effect immediately, and the returned client holds no pool.
type Resolver struct {
	store      RecordStore
	httpClient *http.Client
}

// NewResolver builds a Resolver over the given record store. The optional
// http client is shared by the clients the resolver constructs.
func NewResolver(store RecordStore, httpClient *http.Client) *Resolver {
	if store == nil {
		panic("record store is required")
	}
	return &Resolver{store: store, httpClient: httpClient}
}

// Resolve fetches the tenant record and binds a database client to its
// credentials. Construction is lazy: reachability problems surface on first
// use of the client, not here.
func (r *Resolver) Resolve(ctx context.Context, tenantKey string) (*Client, error) {
	tenantKey = strings.TrimSpace(tenantKey)
	if tenantKey == "" {
		return nil, ErrMissingTenantKey
	}

	record, err := r.store.Lookup(ctx, tenantKey)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &RecordNotFoundError{Key: tenantKey}
		}
		return nil, fmt.Errorf("lookup tenant record: %w", err)
	}

	endpoint := record.EndpointURL()
	secret := record.AccessSecret()

	var missing []string
	if endpoint == "" {
		missing = append(missing, "endpointUrl")
	}
	if secret == "" {
		missing = append(missing, "servicerole")
	}
	if len(missing) > 0 {
		return nil, &IncompleteCredentialsError{Key: tenantKey, Missing: missing}
	}

	return NewClient(endpoint, secret, r.httpClient), nil
}
