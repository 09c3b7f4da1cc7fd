// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package request

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-data-bridge/internal/logger"
	"github.com/MKhiriev/go-data-bridge/internal/utils"
	"github.com/MKhiriev/go-data-bridge/models"
)

var traceIDGenerator = utils.NewUUIDGenerator()

// Options fills a new Request. Zero values take the defaults described in
// spec.md §4.1: Method=GET, Pathname="/", DataPolicy=PreferLocal,
// ResponseType=Text, Timeout=client default, SkipSync=false.
type Options struct {
	Method            string
	Protocol          string
	Host              string
	Pathname          string
	Query             *models.Query
	Search            map[string]string
	Data              any
	ContentType       string
	ResponseType      models.ResponseType
	Auth              models.Auth
	DataPolicy        models.DataPolicy
	Timeout           int
	SkipSync          bool
	SkipBusinessLogic bool
	Trace             bool
	RequestProperties *RequestProperties
}

// Request is the central object of the core: method, URL parts, query,
// body, policy, credentials, and timeout, plus the execute() state machine.
// A Request is not safe for concurrent execute() calls on the same instance
// (spec.md §1 Non-goals) — the executing flag guards against that, not
// against concurrent field access in general.
type Request struct {
	mu sync.Mutex

	method       models.Method
	protocol     string
	host         string
	pathname     string
	query        *models.Query
	search       map[string]string
	data         any
	headers      *HeaderMap
	responseType models.ResponseType
	auth         models.Auth
	dataPolicy   models.DataPolicy
	timeout      int
	skipSync     bool
	executing    bool

	client Client
	logger *logger.Logger
}

// New constructs a Request against client with the defaults and standard
// headers described in spec.md §4.1.
func New(client Client, opts Options) (*Request, error) {
	method := models.MethodGet
	if opts.Method != "" {
		m, err := models.ParseMethod(opts.Method)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		method = m
	}

	pathname := opts.Pathname
	if pathname == "" {
		pathname = "/"
	}

	policy := opts.DataPolicy
	if policy == "" {
		policy = client.DefaultPolicy()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = client.DefaultTimeoutMS()
	}

	protocol := opts.Protocol
	if protocol == "" {
		protocol = client.Protocol()
	}
	host := opts.Host
	if host == "" {
		host = client.Host()
	}

	r := &Request{
		method:       method,
		protocol:     protocol,
		host:         host,
		pathname:     pathname,
		query:        opts.Query,
		search:       opts.Search,
		headers:      NewHeaderMap(),
		responseType: models.ResponseTypeText,
		auth:         opts.Auth,
		dataPolicy:   policy,
		timeout:      timeout,
		skipSync:     opts.SkipSync,
		client:       client,
		logger:       logger.Nop(),
	}

	r.headers.Set("Accept", "application/json")
	r.headers.Set("X-Kinvey-Api-Version", fmt.Sprintf("%d", client.APIVersion()))
	r.headers.Set("X-Kinvey-Device-Information", client.DeviceInformation())

	if opts.ContentType != "" {
		r.headers.Set("X-Kinvey-Content-Type", opts.ContentType)
	}
	if opts.SkipBusinessLogic {
		r.headers.Set("X-Kinvey-Skip-Business-Logic", "true")
	}
	if opts.Trace {
		r.headers.Set("X-Kinvey-Request-Id", traceIDGenerator.Generate())
		r.headers.Set("X-Kinvey-Include-Headers-In-Response", "X-Kinvey-Request-Id")
		r.headers.Set("X-Kinvey-ResponseWrapper", "true")
	}

	if opts.RequestProperties != nil {
		if err := r.SetRequestProperties(*opts.RequestProperties); err != nil {
			return nil, err
		}
	}

	if opts.ResponseType != "" {
		r.SetResponseType(opts.ResponseType)
	}

	// SetData defaults Content-Type only when no Content-Type header is set;
	// opts.ContentType is sent as X-Kinvey-Content-Type and does not count.
	r.SetData(opts.Data)

	return r, nil
}

// WithLogger attaches a structured logger used for state-machine tracing;
// the default is a no-op logger.
func (r *Request) WithLogger(log *logger.Logger) *Request {
	r.logger = log
	return r
}

// SetMethod coerces and validates s per spec.md §4.1.
func (r *Request) SetMethod(s string) error {
	m, err := models.ParseMethod(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	r.method = m
	return nil
}

// Method returns the current HTTP method.
func (r *Request) Method() models.Method { return r.method }

// DataPolicy returns the current data policy.
func (r *Request) DataPolicy() models.DataPolicy { return r.dataPolicy }

// Pathname returns the current pathname.
func (r *Request) Pathname() string { return r.pathname }

// SetData implements the data-setter rule: a non-nil value defaults
// Content-Type when absent; a nil value removes it.
func (r *Request) SetData(data any) {
	r.data = data
	if data != nil {
		if _, ok := r.headers.Get("Content-Type"); !ok {
			r.headers.Set("Content-Type", "application/json; charset=utf-8")
		}
		return
	}
	r.headers.Remove("Content-Type")
}

// SetResponseType stores rt; it carries no header side effect, only the
// toJSON() transport hint.
func (r *Request) SetResponseType(rt models.ResponseType) {
	r.responseType = rt
}

// SetRequestProperties (re)serializes p, enforcing the MAX_CUSTOM_PROPS_BYTES
// cap, and installs the appVersion/custom-properties headers per
// spec.md §4.1.
func (r *Request) SetRequestProperties(p RequestProperties) error {
	serialized, err := p.serialize()
	if err != nil {
		return err
	}
	if len(serialized) >= r.client.MaxCustomPropsBytes() {
		return fmt.Errorf("%w: custom request properties serialize to %d bytes, must be < %d",
			ErrInvalidInput, len(serialized), r.client.MaxCustomPropsBytes())
	}

	if p.AppVersion != "" {
		r.headers.Set("X-Kinvey-Client-App-Version", p.AppVersion)
	} else {
		r.headers.Remove("X-Kinvey-Client-App-Version")
	}
	r.headers.Set("X-Kinvey-Custom-Request-Properties", string(serialized))

	r.logger.Debug().
		Str("fingerprint", utils.FingerprintRequestProperties(serialized, r.client.DebugHashKey())).
		Int("bytes", len(serialized)).
		Msg("request properties set")

	return nil
}

// URL renders "{protocol}://{host}{pathname}".
func (r *Request) URL() string {
	return fmt.Sprintf("%s://%s%s", r.protocol, r.host, r.pathname)
}

// GetHeader, SetHeader, RemoveHeader, and ClearHeaders expose the
// case-insensitive HeaderMap to callers outside the package.
func (r *Request) GetHeader(key string) (string, bool) { return r.headers.Get(key) }
func (r *Request) SetHeader(key, value string)         { r.headers.Set(key, value) }
func (r *Request) RemoveHeader(key string)              { r.headers.Remove(key) }
func (r *Request) ClearHeaders()                        { r.headers.Clear() }

// ToJSON returns the plain descriptor handed off to a rack.
func (r *Request) ToJSON() models.RequestDescriptor {
	return models.RequestDescriptor{
		Method:       string(r.method),
		Headers:      r.headers.ToMap(),
		URL:          r.URL(),
		Pathname:     r.pathname,
		Query:        r.query,
		Search:       r.search,
		Data:         r.data,
		ResponseType: r.responseType.TransportHint(),
		Timeout:      r.timeout,
	}
}

// cloneOverrides holds the fields a sub-request may override relative to its
// parent. A nil pointer means "inherit"; this centralizes the "sub-request
// explosion" pattern (spec.md §9) into one audited code path used by every
// policy branch and by DeltaSetRequest.
type cloneOverrides struct {
	policy   *models.DataPolicy
	method   *models.Method
	pathname *string
	skipSync *bool

	setData bool
	data    any

	setQuery bool
	query    *models.Query
}

// clone builds a fresh Request sharing this one's client reference but
// copying all other fields by value (headers and query are deep-copied), per
// spec.md §3 "sub-requests ... are independent Request instances sharing
// only the client reference."
func (r *Request) clone(o cloneOverrides) *Request {
	c := &Request{
		method:       r.method,
		protocol:     r.protocol,
		host:         r.host,
		pathname:     r.pathname,
		query:        r.query.Clone(),
		search:       r.search,
		data:         r.data,
		headers:      r.headers.Clone(),
		responseType: r.responseType,
		auth:         r.auth,
		dataPolicy:   r.dataPolicy,
		timeout:      r.timeout,
		skipSync:     r.skipSync,
		client:       r.client,
		logger:       r.logger,
	}

	if o.policy != nil {
		c.dataPolicy = *o.policy
	}
	if o.method != nil {
		c.method = *o.method
	}
	if o.pathname != nil {
		c.pathname = *o.pathname
	}
	if o.skipSync != nil {
		c.skipSync = *o.skipSync
	}
	if o.setQuery {
		c.query = o.query
	}
	if o.setData {
		c.SetData(o.data)
	}

	return c
}
