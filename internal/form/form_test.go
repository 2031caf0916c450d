package form

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var good = contact.FormInput{
	Name:    "Ada Lovelace",
	Email:   "ada@example.com",
	Phone:   "5551234567",
	Message: "I would like a quote please.",
}

/*──────────────────────────── token ───────────────────────────────────────*/

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner(testSecret)
	tok, err := s.Token()
	require.NoError(t, err)
	assert.True(t, s.Verify(tok))

	assert.False(t, NewSigner("another-secret-another-secret-xx").Verify(tok))
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	assert.False(t, s.Verify(base64.RawURLEncoding.EncodeToString(raw)))
	assert.False(t, s.Verify("not-base64!"))
}

func TestSignerExpiry(t *testing.T) {
	s := NewSigner(testSecret)
	issued := time.Now()
	s.now = func() time.Time { return issued }
	tok, err := s.Token()
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(MaxTokenAge + time.Second) }
	assert.False(t, s.Verify(tok))

	s.now = func() time.Time { return issued.Add(-2 * clockSkew) }
	assert.False(t, s.Verify(tok), "future-dated token")
}

/*──────────────────────────── validation ──────────────────────────────────*/

func TestValidatePayloadMessages(t *testing.T) {
	errs := ValidatePayload(contact.FormInput{Name: "A", Email: "nope", Phone: "123", Message: "short"})
	assert.Equal(t, []ErrorField{
		{Name: "name", Message: contact.MsgName},
		{Name: "email", Message: contact.MsgEmail},
		{Name: "phone", Message: contact.MsgPhone},
		{Name: "message", Message: contact.MsgMessage},
	}, errs)

	assert.Empty(t, ValidatePayload(good))
}

func TestValidatePayloadLengthCap(t *testing.T) {
	in := good
	in.Message = strings.Repeat("x", 5001)
	errs := ValidatePayload(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "message", errs[0].Name)
	assert.Equal(t, "Must be at most 5000 characters.", errs[0].Message)
}

func postedForm(t *testing.T, s *Signer, rendered time.Time) url.Values {
	t.Helper()
	tok, err := s.Token()
	require.NoError(t, err)
	return url.Values{
		"csrf_token": {tok},
		"render_ts":  {strconv.FormatInt(rendered.UnixMicro(), 10)},
		"name":       {good.Name},
		"email":      {good.Email},
		"phone":      {"(555) 123-4567"},
		"message":    {good.Message},
	}
}

func TestValidateFormHappyPath(t *testing.T) {
	s := NewSigner(testSecret)
	in, errs := ValidateForm(postedForm(t, s, time.Now().Add(-10*time.Second)), s)
	assert.Empty(t, errs)
	assert.Equal(t, "5551234567", in.Phone)
}

func TestValidateFormGuards(t *testing.T) {
	s := NewSigner(testSecret)

	v := postedForm(t, s, time.Now().Add(-10*time.Second))
	v.Set("csrf_token", "forged")
	_, errs := ValidateForm(v, s)
	assert.Equal(t, []ErrorField{{Message: MsgToken}}, errs)

	_, errs = ValidateForm(postedForm(t, s, time.Now()), s)
	assert.Equal(t, []ErrorField{{Message: MsgTooFast}}, errs)

	v = postedForm(t, s, time.Now())
	v.Del("render_ts")
	_, errs = ValidateForm(v, s)
	assert.Equal(t, []ErrorField{{Message: MsgNoTS}}, errs)
}

func TestCheckTiming(t *testing.T) {
	now := time.Now()
	ts := func(d time.Duration) string { return strconv.FormatInt(now.Add(-d).UnixMicro(), 10) }

	assert.Equal(t, MsgBadTS, checkTiming("abc", now))
	assert.Equal(t, MsgExpired, checkTiming(ts(3*time.Hour), now))
	assert.Equal(t, "", checkTiming(ts(time.Minute), now))
}

func TestMessagesKeysFormLevel(t *testing.T) {
	m := Messages([]ErrorField{{Message: MsgToken}, {Name: "name", Message: contact.MsgName}})
	assert.Equal(t, map[string]string{"form": MsgToken, "name": contact.MsgName}, m)
}

/*──────────────────────────── submit ──────────────────────────────────────*/

type fakeRelay struct {
	ids []string
	err error
}

func (f *fakeRelay) EnqueueWebhook(_ context.Context, id string, _ any) error {
	f.ids = append(f.ids, id)
	return f.err
}

func jsonRequest(body, id string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if id != "" {
		r.Header.Set(contact.SubmissionIDHeader, id)
	}
	return r
}

const goodJSON = `{"name":"  Ada Lovelace ","email":"ada@example.com","phone":"5551234567","message":"I would like a quote please."}`

func TestHandleSubmitJSONKeepsClientID(t *testing.T) {
	relay := &fakeRelay{}
	id := "0b6f4b4e-6f0e-4c3e-9d1c-2f7f1b7f6a11"

	sub, err := HandleSubmit(jsonRequest(goodJSON, id), SubmitOptions{
		Executor: &Executor{Actions: []string{ActionRelay}, Relay: relay},
	})
	require.NoError(t, err)

	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "Ada Lovelace", sub.Input.Name, "input is trimmed")
	assert.False(t, sub.ReceivedAt.IsZero())
	assert.Equal(t, []string{id}, relay.ids)
}

func TestHandleSubmitJSONGeneratesID(t *testing.T) {
	sub, err := HandleSubmit(jsonRequest(goodJSON, "not-a-uuid"), SubmitOptions{})
	require.NoError(t, err)
	assert.Len(t, sub.ID, 36)
	assert.NotEqual(t, "not-a-uuid", sub.ID)
}

func TestHandleSubmitJSONInvalid(t *testing.T) {
	_, err := HandleSubmit(jsonRequest(`{"name":"A"}`, ""), SubmitOptions{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	m := Messages(FieldErrors(err))
	assert.Equal(t, contact.MsgName, m["name"])
	assert.Equal(t, contact.MsgEmail, m["email"])
	assert.Equal(t, contact.MsgPhone, m["phone"])
	assert.Equal(t, contact.MsgMessage, m["message"])
}

func TestHandleSubmitMalformed(t *testing.T) {
	for _, body := range []string{"", "{", `{"name": 5}`} {
		_, err := HandleSubmit(jsonRequest(body, ""), SubmitOptions{})
		assert.ErrorIs(t, err, ErrMalformed, body)
		assert.False(t, IsValidationError(err))
	}
}

func TestHandleSubmitHTMLForm(t *testing.T) {
	s := NewSigner(testSecret)
	body := postedForm(t, s, time.Now().Add(-5*time.Second)).Encode()
	r := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sub, err := HandleSubmit(r, SubmitOptions{Signer: s})
	require.NoError(t, err)
	assert.Equal(t, "5551234567", sub.Input.Phone)
}

/*──────────────────────────── actions ─────────────────────────────────────*/

func mockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.New(sqlx.NewDb(db, "mysql")), mock
}

func TestExecutorStoreThenRelay(t *testing.T) {
	st, mock := mockStore(t)
	relay := &fakeRelay{}
	mock.ExpectExec(`INSERT IGNORE INTO contact_submission`).WillReturnResult(sqlmock.NewResult(0, 1))

	sub := &Submission{ID: "id-1", Input: good, ReceivedAt: time.Now().UTC()}
	dup := (&Executor{Actions: []string{ActionStore, ActionRelay}, Store: st, Relay: relay}).
		Execute(context.Background(), sub)

	assert.False(t, dup)
	assert.Equal(t, []string{"id-1"}, relay.ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutorDuplicateSkipsRelay(t *testing.T) {
	st, mock := mockStore(t)
	relay := &fakeRelay{}
	mock.ExpectExec(`INSERT IGNORE INTO contact_submission`).WillReturnResult(sqlmock.NewResult(0, 0))

	sub := &Submission{ID: "id-1", Input: good, ReceivedAt: time.Now().UTC()}
	dup := (&Executor{Actions: []string{ActionStore, ActionRelay}, Store: st, Relay: relay}).
		Execute(context.Background(), sub)

	assert.True(t, dup)
	assert.Empty(t, relay.ids)
}

func TestExecutorStoreFailureStillRelays(t *testing.T) {
	st, mock := mockStore(t)
	relay := &fakeRelay{}
	mock.ExpectExec(`INSERT IGNORE INTO contact_submission`).WillReturnError(errors.New("db down"))

	sub := &Submission{ID: "id-2", Input: good, ReceivedAt: time.Now().UTC()}
	dup := (&Executor{Actions: []string{ActionStore, ActionRelay}, Store: st, Relay: relay}).
		Execute(context.Background(), sub)

	assert.False(t, dup)
	assert.Equal(t, []string{"id-2"}, relay.ids)
}

/*──────────────────────────── renderer ────────────────────────────────────*/

func TestRenderFormMarkup(t *testing.T) {
	out, err := RenderForm(RenderOptions{
		Signer:   NewSigner(testSecret),
		Endpoint: "/api/contact",
		Mode:     "acknowledged",
	})
	require.NoError(t, err)
	s := string(out)

	for _, want := range []string{
		`id="contact-form"`,
		`data-endpoint="/api/contact"`,
		`data-mode="acknowledged"`,
		`id="submit-btn"`,
		`name="csrf_token"`,
		`name="render_ts"`,
		`<textarea id="message"`,
	} {
		assert.Contains(t, s, want)
	}
	for _, f := range contact.Fields {
		assert.Contains(t, s, `id="`+f.ErrorID()+`" class="error-message"`)
	}
}

func TestRenderFormCarriesClientSettings(t *testing.T) {
	out, err := RenderForm(RenderOptions{
		Signer:    NewSigner(testSecret),
		Endpoint:  "/api/contact",
		Mode:      "simulated",
		BusyLabel: `Wait "a" sec`,
		Timeout:   15 * time.Second,
		Delay:     1500 * time.Millisecond,
	})
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `data-busy-label="Wait &#34;a&#34; sec"`)
	assert.Contains(t, s, `data-timeout="15000"`)
	assert.Contains(t, s, `data-delay="1500"`)
	assert.Contains(t, s, `data-mode="simulated" data-busy-label=`)

	bare, err := RenderForm(RenderOptions{Signer: NewSigner(testSecret)})
	require.NoError(t, err)
	assert.NotContains(t, string(bare), "data-timeout")
	assert.Contains(t, string(bare), `data-mode="" novalidate>`)
}

func TestRenderFormErrorsAndPrefill(t *testing.T) {
	out, err := RenderForm(RenderOptions{
		Signer:  NewSigner(testSecret),
		Prefill: contact.FormInput{Name: `<b>"x"</b>`},
		Errors: []ErrorField{
			{Name: "name", Message: contact.MsgName},
			{Message: MsgExpired},
		},
	})
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `value="&lt;b&gt;&#34;x&#34;&lt;/b&gt;"`)
	assert.Contains(t, s, `id="name-error" class="error-message show" aria-live="polite">`+contact.MsgName)
	assert.Contains(t, s, `class="form-banner error show" role="alert">`+MsgExpired)
	assert.NotContains(t, s, "<b>")
}

func TestRenderFormNeedsSigner(t *testing.T) {
	_, err := RenderForm(RenderOptions{})
	assert.Error(t, err)
}
