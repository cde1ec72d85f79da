package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanqian/destiny/internal/domain/fortune"
	"github.com/yanqian/destiny/internal/domain/ziwei"
	apperrors "github.com/yanqian/destiny/pkg/errors"
	"github.com/yanqian/destiny/pkg/metrics"
)

// Service runs analyses for callers.
type Service interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	Invalidate(ctx context.Context, fingerprint string) error
}

type service struct {
	cfg     Config
	engine  Engine
	store   Store
	tiers   TierLookup
	metrics *metrics.Analysis
	logger  *slog.Logger
	// in-flight computations keyed by fingerprint; entries leave the group
	// as soon as their computation settles.
	flights singleflight.Group
	// joined, when set, runs once a caller is attached to a flight.
	joined func(fingerprint string)
}

// NewService wires up the orchestrator.
func NewService(cfg Config, engine Engine, store Store, tiers TierLookup, m *metrics.Analysis, logger *slog.Logger) (Service, error) {
	if cfg.Plans == nil {
		cfg.Plans = DefaultPlans()
	}
	if err := validatePlans(cfg.Plans); err != nil {
		return nil, err
	}
	if cfg.DefaultTier == "" {
		cfg.DefaultTier = TierFree
	}
	if _, ok := cfg.Plans[cfg.DefaultTier]; !ok {
		return nil, fmt.Errorf("default tier %q has no plan", cfg.DefaultTier)
	}
	return &service{
		cfg:     cfg,
		engine:  engine,
		store:   store,
		tiers:   tiers,
		metrics: m,
		logger:  logger.With("component", "analysis.service"),
	}, nil
}

// job is a validated request.
type job struct {
	record      BirthRecord
	typ         Type
	tier        Tier
	plan        Plan
	asOf        string
	fingerprint string
}

func (s *service) Analyze(ctx context.Context, req Request) (Result, error) {
	j, err := s.prepare(ctx, req)
	if err != nil {
		s.metrics.IncOutcome(string(req.Type), string(req.Tier), outcomeOf(err))
		return Result{}, err
	}

	if cached, ok := s.lookup(ctx, j.fingerprint); ok {
		s.metrics.IncOutcome(string(j.typ), string(j.tier), "cached")
		return cached, nil
	}

	ch := s.flights.DoChan(j.fingerprint, func() (interface{}, error) {
		// Waiters may leave; the computation and cache write finish regardless.
		return s.compute(context.WithoutCancel(ctx), j)
	})
	if s.joined != nil {
		s.joined(j.fingerprint)
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.metrics.IncShared()
			s.logger.Debug("shared in-flight analysis", "fingerprint", j.fingerprint)
		}
		if res.Err != nil {
			s.metrics.IncOutcome(string(j.typ), string(j.tier), outcomeOf(res.Err))
			return Result{}, res.Err
		}
		s.metrics.IncOutcome(string(j.typ), string(j.tier), "computed")
		return res.Val.(Result), nil
	}
}

func (s *service) Invalidate(ctx context.Context, fingerprint string) error {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return apperrors.Validation("fingerprint cannot be empty")
	}
	if err := s.store.Delete(ctx, fingerprint); err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "cache delete failed", err)
	}
	return nil
}

func (s *service) prepare(ctx context.Context, req Request) (job, error) {
	if err := validateRecord(req.Record); err != nil {
		return job{}, err
	}
	record := req.Record
	record.Name = strings.TrimSpace(record.Name)
	record.BirthPlace.Name = strings.TrimSpace(record.BirthPlace.Name)

	typ := req.Type
	if typ == "" {
		typ = TypeNatal
	}
	var asOf string
	switch typ {
	case TypeNatal:
	case TypeDaily:
		if req.AsOf.IsZero() {
			return job{}, apperrors.Validation("daily analysis requires an asOf date")
		}
		asOf = civilDate(req.AsOf, record.Offset())
	default:
		return job{}, apperrors.Validation(fmt.Sprintf("unknown analysis type %q", typ))
	}

	tier, looked, err := s.resolveTier(ctx, req)
	if err != nil {
		return job{}, err
	}
	plan, ok := s.cfg.Plans[tier]
	switch {
	case !ok && looked:
		return job{}, apperrors.Wrap(apperrors.CodeTierLookup, fmt.Sprintf("subscription tier %q has no plan", tier), nil)
	case !ok:
		return job{}, apperrors.Validation(fmt.Sprintf("unknown tier %q", tier))
	}

	return job{
		record:      record,
		typ:         typ,
		tier:        tier,
		plan:        plan,
		asOf:        asOf,
		fingerprint: Fingerprint(record, typ, tier, asOf),
	}, nil
}

// resolveTier reports whether the tier came from the subscription store.
func (s *service) resolveTier(ctx context.Context, req Request) (Tier, bool, error) {
	if req.Tier != "" {
		return req.Tier, false, nil
	}
	if req.Subject != "" && s.tiers != nil {
		tier, err := s.tiers.LookupTier(ctx, req.Subject)
		if err != nil {
			return "", false, apperrors.Wrap(apperrors.CodeTierLookup, "tier lookup failed", err)
		}
		if tier != "" {
			return tier, true, nil
		}
	}
	return s.cfg.DefaultTier, false, nil
}

// lookup treats a failing cache as a miss.
func (s *service) lookup(ctx context.Context, fingerprint string) (Result, bool) {
	if s.store == nil {
		return Result{}, false
	}
	cached, ok, err := s.store.Get(ctx, fingerprint)
	switch {
	case err != nil:
		s.metrics.IncCacheLookup("error")
		s.logger.Warn("cache lookup failed", "fingerprint", fingerprint, "error", err)
		return Result{}, false
	case ok:
		s.metrics.IncCacheLookup("hit")
		return cached, true
	default:
		s.metrics.IncCacheLookup("miss")
		return Result{}, false
	}
}

func (s *service) compute(ctx context.Context, j job) (Result, error) {
	start := time.Now()
	result, err := s.run(j)
	s.metrics.ObserveCompute(time.Since(start))
	if err != nil {
		s.logger.Error("analysis failed", "fingerprint", j.fingerprint, "code", apperrors.CodeOf(err), "error", err)
		return Result{}, err
	}

	if s.store != nil {
		if err := s.store.Set(ctx, j.fingerprint, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache write failed", "fingerprint", j.fingerprint, "error", err)
		}
	}
	return result, nil
}

// run executes the stages the plan selects. Any failure aborts the whole run.
func (s *service) run(j job) (Result, error) {
	result := Result{
		Fingerprint: j.fingerprint,
		Type:        j.typ,
		Tier:        j.tier,
		Record:      j.record,
		AsOf:        j.asOf,
		Stages:      append([]Stage(nil), j.plan.Stages...),
	}

	lunar, err := s.engine.Calendar.Convert(j.record.BirthTime, j.record.Offset())
	if err != nil {
		return Result{}, err
	}
	result.Lunar = lunar

	pillars, err := s.engine.Pillars.Compute(lunar)
	if err != nil {
		return Result{}, err
	}
	result.Pillars = pillars

	if j.plan.Runs(StageStarChart) {
		chart, err := s.engine.Chart.Compute(lunar, ziwei.Gender(j.record.Gender))
		if err != nil {
			return Result{}, err
		}
		result.Chart = &chart
	}

	in := fortune.Input{Pillars: pillars, Chart: result.Chart}
	if j.asOf != "" {
		asOf, err := time.Parse("2006-01-02", j.asOf)
		if err != nil {
			return Result{}, apperrors.Computation("asOf date", err)
		}
		in.AsOf = asOf
	}
	score, err := s.engine.Fortune.Synthesize(in)
	if err != nil {
		return Result{}, err
	}
	result.Fortune = score.TruncateAdvice(j.plan.AdviceDetails)
	return result, nil
}

func validateRecord(r BirthRecord) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.Validation("name is required")
	}
	switch r.Gender {
	case GenderMale, GenderFemale:
	case "":
		return apperrors.Validation("gender is required")
	default:
		return apperrors.Validation(fmt.Sprintf("gender %q must be male or female", r.Gender))
	}
	if r.BirthTime.IsZero() {
		return apperrors.Validation("birthTime is required")
	}
	if lat := r.BirthPlace.Latitude; lat != nil && (*lat < -90 || *lat > 90) {
		return apperrors.Validation("latitude must be within -90..90")
	}
	if lng := r.BirthPlace.Longitude; lng != nil && (*lng < -180 || *lng > 180) {
		return apperrors.Validation("longitude must be within -180..180")
	}
	return nil
}

func outcomeOf(err error) string {
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return "error"
}
