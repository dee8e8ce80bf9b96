package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/config"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/metrics"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/notify"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/repository"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/request"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/response"
)

const liveMessage = "Contact Page API is live"

// Archiver stores a copy of a submission and returns where it went.
type Archiver interface {
	ArchiveSubmission(ctx context.Context, sub *model.Submission, createdAt time.Time) (string, error)
}

// Deps are the downstream clients, built once per process.
type Deps struct {
	Store    repository.SubmissionStore
	Archive  Archiver
	Notifier notify.Notifier
	Metrics  metrics.Sink
	NewRelic *newrelic.Application
	Logger   zerolog.Logger
}

func (d Deps) ready() error {
	var missing []string
	if d.Store == nil {
		missing = append(missing, "store")
	}
	if d.Archive == nil {
		missing = append(missing, "archive")
	}
	if d.Notifier == nil {
		missing = append(missing, "notifier")
	}
	if d.Metrics == nil {
		missing = append(missing, "metrics")
	}
	if len(missing) > 0 {
		return fmt.Errorf("clients not initialized: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SubmissionHandler serves the contact endpoint. It holds no per-request state
// and is safe to reuse across invocations.
type SubmissionHandler struct {
	cfg      *config.Config
	deps     Deps
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// New returns a SubmissionHandler for cfg.
func New(cfg *config.Config, deps Deps) *SubmissionHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &SubmissionHandler{
		cfg:      cfg,
		deps:     deps,
		validate: v,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// HandleEvent is the Lambda entrypoint for API Gateway REST and HTTP API events.
func (h *SubmissionHandler) HandleEvent(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
	h.deps.Logger.Debug().RawJSON("event", raw).Msg("event received")
	req, err := request.FromEvent(raw)
	if err != nil {
		h.deps.Logger.Error().Err(err).Msg("undecodable event")
		return response.InternalError("Internal error", err.Error()).ToProxy(), nil
	}
	return h.Handle(ctx, req).ToProxy(), nil
}

// Handle dispatches one request by method.
func (h *SubmissionHandler) Handle(ctx context.Context, req request.Request) (resp response.Response) {
	log := h.deps.Logger.With().Str("method", req.Method).Logger()
	log.Info().Msg("request received")

	txn := h.deps.NewRelic.StartTransaction("contactform " + req.Method)
	defer txn.End()
	ctx = newrelic.NewContext(ctx, txn)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			txn.NoticeError(err)
			log.Error().Err(err).Msg("handler panicked")
			resp = response.InternalError("Internal error", err.Error())
		}
	}()

	switch req.Method {
	case http.MethodOptions:
		return response.NoContent()
	case http.MethodGet:
		if h.cfg.GetMode == config.GetModePage {
			return response.HTML(contactPage)
		}
		return response.JSON(http.StatusOK, response.Message{Message: liveMessage})
	case http.MethodPost:
		sub, err := h.submit(ctx, log, req)
		if err != nil {
			var herr *Error
			if !errors.As(err, &herr) {
				herr = downstream("submit", err)
			}
			txn.NoticeError(herr)
			log.Error().Err(herr).Str("kind", string(herr.Kind)).Msg("submission failed")
			return herr.Response()
		}
		if h.cfg.GetMode == config.GetModePage && isFormEncoded(req) {
			return response.HTML(successPage)
		}
		return response.OK("Success", sub.ID)
	default:
		herr := methodNotAllowed(req.Method)
		log.Warn().Err(herr).Msg("method not allowed")
		return herr.Response()
	}
}

// submit runs the submission pipeline. Downstream calls are strictly
// sequential and not retried; a failure after the store write leaves the
// item in place unless RollbackOnFailure is set.
func (h *SubmissionHandler) submit(ctx context.Context, log zerolog.Logger, req request.Request) (*model.Submission, error) {
	if missing := h.cfg.MissingDownstream(); len(missing) > 0 {
		return nil, missingConfig(missing)
	}

	form, err := parseForm(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Interface("form", form).Msg("parsed body")

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, missingField(verrs[0].Field())
		}
		return nil, invalidBody(err)
	}

	now := h.now().UTC()
	sub := model.NewSubmission(h.newID(), now, form, h.cfg.FormSource, req.ClientIP(), req.UserAgent())
	log = log.With().Str("id", sub.ID).Logger()

	if err := h.deps.ready(); err != nil {
		return nil, downstream("init", err)
	}
	if err := h.step(ctx, "store.Insert", func(ctx context.Context) error {
		return h.deps.Store.Insert(ctx, sub)
	}); err != nil {
		return nil, downstream("store", err)
	}
	log.Info().Msg("store write success")

	var key string
	if err := h.step(ctx, "archive.Put", func(ctx context.Context) (err error) {
		key, err = h.deps.Archive.ArchiveSubmission(ctx, sub, now)
		return err
	}); err != nil {
		h.rollback(ctx, log, sub)
		return nil, downstream("archive", err)
	}
	log.Info().Str("key", key).Msg("archive write success")

	var messageID string
	if err := h.step(ctx, "notify.Publish", func(ctx context.Context) (err error) {
		messageID, err = h.deps.Notifier.NotifySubmission(ctx, sub)
		return err
	}); err != nil {
		return nil, downstream("notify", err)
	}
	log.Info().Str("message_id", messageID).Msg("notification published")

	if err := h.step(ctx, "metrics.Count", func(ctx context.Context) error {
		return h.deps.Metrics.Count(ctx, metrics.MessagesStored, 1, now)
	}); err != nil {
		return nil, downstream("metrics", err)
	}
	log.Info().Msg("metric published")

	return sub, nil
}

// step runs one downstream call inside a New Relic segment.
func (h *SubmissionHandler) step(ctx context.Context, name string, fn func(context.Context) error) error {
	seg := newrelic.FromContext(ctx).StartSegment(name)
	defer seg.End()
	return fn(ctx)
}

func (h *SubmissionHandler) rollback(ctx context.Context, log zerolog.Logger, sub *model.Submission) {
	if !h.cfg.RollbackOnFailure {
		return
	}
	if err := h.deps.Store.Delete(ctx, sub.ID); err != nil {
		log.Error().Err(err).Msg("rollback of store write failed")
		return
	}
	log.Warn().Msg("store write rolled back")
}

func isFormEncoded(req request.Request) bool {
	return req.ContentType() == "application/x-www-form-urlencoded"
}

// parseForm decodes the body as JSON, or as url-encoded form values when the
// content type says so. An absent, unparsable, non-object or empty body is
// rejected.
func parseForm(req request.Request) (model.ContactForm, error) {
	if !req.HasBody() {
		return model.ContactForm{}, invalidBody(errors.New("empty body"))
	}
	body, err := req.DecodedBody()
	if err != nil {
		return model.ContactForm{}, invalidBody(err)
	}

	fields := make(map[string]any)
	if isFormEncoded(req) {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return model.ContactForm{}, invalidBody(err)
		}
		for k := range values {
			fields[k] = values.Get(k)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return model.ContactForm{}, invalidBody(err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return model.ContactForm{}, invalidBody(errors.New("trailing data after JSON body"))
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return model.ContactForm{}, invalidBody(fmt.Errorf("body is %T, want object", v))
		}
		fields = obj
	}
	if len(fields) == 0 {
		return model.ContactForm{}, invalidBody(errors.New("no fields"))
	}
	return model.ContactFormFromMap(fields), nil
}
