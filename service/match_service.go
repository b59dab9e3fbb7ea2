package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/analyzer"
)

// progress is reported once per this many records
const progressInterval = 256

// MatchServiceImpl implements domain.MatchService on top of the LSH engines
type MatchServiceImpl struct {
	progress domain.ProgressManager
	logger   *slog.Logger
	now      func() time.Time
}

// NewMatchService creates a new match service. progress may be nil.
func NewMatchService(progress domain.ProgressManager, logger *slog.Logger) *MatchServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchServiceImpl{
		progress: progress,
		logger:   logger,
		now:      time.Now,
	}
}

// FindMatches indexes the records with the pipeline selected by req.Mode and
// samples req.Samples candidate pairs
func (s *MatchServiceImpl) FindMatches(ctx context.Context, records []domain.Record, req *domain.MatchRequest) (*domain.MatchResponse, error) {
	if len(records) == 0 {
		return nil, domain.NewInvalidInputError("no records to match", nil)
	}

	start := s.now()
	var (
		pairs  []analyzer.CandidatePair
		stages []domain.StageSummary
		err    error
	)
	switch req.Mode {
	case domain.MatchModeAuthors:
		pairs, stages, err = s.matchAuthors(ctx, records, req)
	case domain.MatchModeTexts:
		pairs, stages, err = s.matchTexts(ctx, records, req)
	case domain.MatchModeSets:
		pairs, stages, err = s.matchSets(ctx, records, req)
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown match mode: %q", req.Mode))
	}
	if err != nil {
		return nil, err
	}
	duration := s.now().Sub(start)

	s.logger.Info("finished finding matches",
		"mode", req.Mode,
		"records", len(records),
		"samples", len(pairs),
		"duration", duration)

	return &domain.MatchResponse{
		Matches:     BuildMatchEntries(records, pairs),
		Stages:      stages,
		RecordsRead: len(records),
		Duration:    duration,
		GeneratedAt: s.now(),
	}, nil
}

// matchAuthors signs every text with the text engine, collects the band
// hashes of each key's texts as that key's set, then indexes and samples keys
// with the author engine
func (s *MatchServiceImpl) matchAuthors(ctx context.Context, records []domain.Record, req *domain.MatchRequest) ([]analyzer.CandidatePair, []domain.StageSummary, error) {
	textEngine, err := analyzer.NewTextEngine(engineConfig(req.Text, req, 0), req.Text.ShingleLength)
	if err != nil {
		return nil, nil, translateEngineError(err, "")
	}
	s.logStage("text", textEngine.Params())

	keys, sets := []string{}, make(map[string]map[uint32]struct{})
	distinct := make(map[uint32]struct{})
	s.startProgress("Signing texts", len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			s.completeProgress(false)
			return nil, nil, err
		}

		hashes, err := textEngine.BandHashes(record.Text)
		if err != nil {
			s.completeProgress(false)
			return nil, nil, translateEngineError(err, record.Key)
		}
		set, ok := sets[record.Key]
		if !ok {
			set = make(map[uint32]struct{}, len(hashes))
			sets[record.Key] = set
			keys = append(keys, record.Key)
		}
		for _, h := range hashes {
			set[h] = struct{}{}
			distinct[h] = struct{}{}
		}
		s.updateProgress(i+1, len(records))
	}
	s.completeProgress(true)

	textStage := stageSummary("text", req.Text, textEngine.Params(), len(records), nil)
	textStage.Buckets = len(distinct)

	authorEngine, err := analyzer.NewSetEngine(engineConfig(req.Authors, req, 1))
	if err != nil {
		return nil, nil, translateEngineError(err, "")
	}
	s.logStage("authors", authorEngine.Params())

	s.startProgress("Indexing authors", len(keys))
	for i, key := range keys {
		if err := ctx.Err(); err != nil {
			s.completeProgress(false)
			return nil, nil, err
		}
		if err := authorEngine.Insert(key, sortedHashes(sets[key])); err != nil {
			s.completeProgress(false)
			return nil, nil, translateEngineError(err, key)
		}
		s.updateProgress(i+1, len(keys))
	}
	s.completeProgress(true)

	stats := authorEngine.Index().GetStats()
	s.logIndex("authors", stats)
	authorStage := stageSummary("authors", req.Authors, authorEngine.Params(), len(keys), &stats)

	pairs, err := authorEngine.Sample(req.Samples)
	if err != nil {
		return nil, nil, translateEngineError(err, "")
	}
	return pairs, []domain.StageSummary{textStage, authorStage}, nil
}

// matchTexts indexes every text directly under its key
func (s *MatchServiceImpl) matchTexts(ctx context.Context, records []domain.Record, req *domain.MatchRequest) ([]analyzer.CandidatePair, []domain.StageSummary, error) {
	engine, err := analyzer.NewTextEngine(engineConfig(req.Text, req, 0), req.Text.ShingleLength)
	if err != nil {
		return nil, nil, translateEngineError(err, "")
	}
	return runSingleStage(ctx, s, "text", engine, req, records, func(r domain.Record) (string, error) {
		return r.Text, nil
	})
}

// matchSets indexes whitespace-separated integer sets under their keys
func (s *MatchServiceImpl) matchSets(ctx context.Context, records []domain.Record, req *domain.MatchRequest) ([]analyzer.CandidatePair, []domain.StageSummary, error) {
	engine, err := analyzer.NewSetEngine(engineConfig(req.Text, req, 0))
	if err != nil {
		return nil, nil, translateEngineError(err, "")
	}
	return runSingleStage(ctx, s, "sets", engine, req, records, func(r domain.Record) ([]uint64, error) {
		return ParseIntegerSet(r.Text)
	})
}

func runSingleStage[T any](
	ctx context.Context,
	s *MatchServiceImpl,
	name string,
	engine *analyzer.Engine[T],
	req *domain.MatchRequest,
	records []domain.Record,
	value func(domain.Record) (T, error),
) ([]analyzer.CandidatePair, []domain.StageSummary, error) {
	s.logStage(name, engine.Params())

	s.startProgress("Indexing records", len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			s.completeProgress(false)
			return nil, nil, err
		}
		v, err := value(record)
		if err != nil {
			s.completeProgress(false)
			return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("record %d of key %q", i+1, record.Key), err)
		}
		if err := engine.Insert(record.Key, v); err != nil {
			s.completeProgress(false)
			return nil, nil, translateEngineError(err, record.Key)
		}
		s.updateProgress(i+1, len(records))
	}
	s.completeProgress(true)

	stats := engine.Index().GetStats()
	s.logIndex(name, stats)
	stage := stageSummary(name, req.Text, engine.Params(), len(records), &stats)

	pairs, err := engine.Sample(req.Samples)
	if err != nil {
		return nil, nil, translateEngineError(err, "")
	}
	return pairs, []domain.StageSummary{stage}, nil
}

// ParseIntegerSet parses whitespace-separated non-negative integers
func ParseIntegerSet(text string) ([]uint64, error) {
	fields := strings.Fields(text)
	set := make([]uint64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid set element %q: %w", field, err)
		}
		set = append(set, v)
	}
	return set, nil
}

// BuildMatchEntries pairs each sampled pair with the texts of both keys in
// input order, naming entries match-0, match-1, ...
func BuildMatchEntries(records []domain.Record, pairs []analyzer.CandidatePair) []domain.MatchEntry {
	wanted := make(map[string][]string, 2*len(pairs))
	for _, pair := range pairs {
		wanted[pair.Key1] = []string{}
		wanted[pair.Key2] = []string{}
	}
	for _, record := range records {
		if texts, ok := wanted[record.Key]; ok {
			wanted[record.Key] = append(texts, record.Text)
		}
	}

	entries := make([]domain.MatchEntry, len(pairs))
	for i, pair := range pairs {
		entries[i] = domain.MatchEntry{
			Name:   fmt.Sprintf("match-%d", i),
			Key1:   pair.Key1,
			Texts1: wanted[pair.Key1],
			Key2:   pair.Key2,
			Texts2: wanted[pair.Key2],
		}
	}
	return entries
}

// translateEngineError maps engine sentinels to domain errors
func translateEngineError(err error, key string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, analyzer.ErrEmptyInputSet):
		return domain.NewEmptyInputSetError(key, err)
	case errors.Is(err, analyzer.ErrInsufficientCandidates):
		return domain.NewInsufficientCandidatesError("not enough candidate buckets to sample from", err)
	case errors.Is(err, analyzer.ErrInvalidParameter):
		return domain.NewInvalidParameterError("invalid engine parameters", err)
	default:
		return domain.NewAnalysisError("matching failed", err)
	}
}

// engineConfig derives one engine's configuration; later stages get their
// own seed so their permutations differ from earlier ones
func engineConfig(params domain.StageParameters, req *domain.MatchRequest, stage uint64) analyzer.EngineConfig {
	seed := req.Seed
	if seed != 0 {
		seed += stage
	}
	return analyzer.EngineConfig{
		Threshold: params.Threshold,
		NumPerm:   params.NumPerm,
		BandHash:  req.BandHash,
		Seed:      seed,
	}
}

func stageSummary(name string, params domain.StageParameters, bands analyzer.BandParameters, signed int, stats *analyzer.LSHIndexStats) domain.StageSummary {
	summary := domain.StageSummary{
		Name:                     name,
		Threshold:                params.Threshold,
		NumPerm:                  params.NumPerm,
		Bands:                    bands.Bands,
		Rows:                     bands.Rows,
		FalsePositiveProbability: bands.FalsePositiveProbability,
		FalseNegativeProbability: bands.FalseNegativeProbability,
		SignedItems:              signed,
	}
	if stats != nil {
		summary.IndexedKeys = stats.NumKeys
		summary.Buckets = stats.NumBuckets
		summary.CandidateBuckets = stats.CandidateBuckets
	}
	return summary
}

func sortedHashes(set map[uint32]struct{}) []uint64 {
	values := make([]uint64, 0, len(set))
	for h := range set {
		values = append(values, uint64(h))
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}

func (s *MatchServiceImpl) logStage(name string, params analyzer.BandParameters) {
	s.logger.Info("engine ready",
		"stage", name,
		"bands", params.Bands,
		"rows", params.Rows,
		"false_positive", params.FalsePositiveProbability,
		"false_negative", params.FalseNegativeProbability)
}

func (s *MatchServiceImpl) logIndex(name string, stats analyzer.LSHIndexStats) {
	s.logger.Debug("index populated",
		"stage", name,
		"keys", stats.NumKeys,
		"buckets", stats.NumBuckets,
		"candidate_buckets", stats.CandidateBuckets,
		"max_bucket_size", stats.MaxBucketSize,
		"avg_bucket_size", stats.AvgBucketSize)
}

func (s *MatchServiceImpl) startProgress(description string, total int) {
	if s.progress != nil {
		s.progress.StartStage(description, total)
	}
}

func (s *MatchServiceImpl) updateProgress(processed, total int) {
	if s.progress == nil || (processed%progressInterval != 0 && processed != total) {
		return
	}
	s.progress.Advance(processed)
}

func (s *MatchServiceImpl) completeProgress(success bool) {
	if s.progress != nil {
		s.progress.FinishStage(success)
	}
}
