package application

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

const overviewCacheKey = "stats:overview"

var allStatuses = []entity.ApplicationStatus{
	entity.StatusApplied, entity.StatusShortlisted, entity.StatusSelected,
	entity.StatusRejected, entity.StatusWithdrawn,
}

// StatisticsService aggregates placement figures for officers. The overview
// is cached in Redis for ttl when a client is configured.
type StatisticsService struct {
	store  repository.Store
	cache  redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

// NewStatisticsService accepts a nil cache.
func NewStatisticsService(store repository.Store, cache redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *StatisticsService {
	return &StatisticsService{store: store, cache: cache, ttl: ttl, logger: loggerOrStd(logger)}
}

func (s *StatisticsService) Overview(ctx context.Context, p entity.Principal) (out OverviewStats, err error) {
	defer func() { err = report(s.logger, "officer.stats_overview", p.IdentityID, "", err) }()

	if s.cache != nil && s.ttl > 0 {
		found, cerr := helpers.RedisGetJSON(ctx, s.cache, overviewCacheKey, &out)
		if cerr != nil {
			s.logger.WithError(cerr).Warn("overview cache read failed")
		}
		if found {
			return out, nil
		}
	}

	repo := s.store.Stats()
	students, err := repo.StudentCounts(ctx)
	if err != nil {
		return out, storeErr(err, nil)
	}
	recruiters, err := repo.RecruiterCounts(ctx)
	if err != nil {
		return out, storeErr(err, nil)
	}
	jobs, err := repo.JobCounts(ctx)
	if err != nil {
		return out, storeErr(err, nil)
	}
	byStatus, err := repo.ApplicationsByStatus(ctx)
	if err != nil {
		return out, storeErr(err, nil)
	}

	out = OverviewStats{
		Students:     studentStats(students),
		Recruiters:   recruiters,
		Jobs:         jobs,
		Applications: ApplicationStats{ByStatus: fillStatuses(byStatus)},
	}
	for _, n := range out.Applications.ByStatus {
		out.Applications.TotalApplications += n
	}

	if s.cache != nil && s.ttl > 0 {
		if cerr := helpers.RedisSetJSON(ctx, s.cache, overviewCacheKey, out, s.ttl); cerr != nil {
			s.logger.WithError(cerr).Warn("overview cache write failed")
		}
	}
	return out, nil
}

func studentStats(c entity.StudentCounts) StudentStats {
	return StudentStats{
		Total:               c.Total,
		Placed:              c.Placed,
		Unplaced:            c.Total - c.Placed,
		PlacementPercentage: percent(c.Placed, c.Total),
	}
}

// fillStatuses returns a copy of counts with every status present.
func fillStatuses(counts map[entity.ApplicationStatus]int) map[entity.ApplicationStatus]int {
	out := make(map[entity.ApplicationStatus]int, len(allStatuses))
	for _, st := range allStatuses {
		out[st] = counts[st]
	}
	return out
}

// Branchwise reports placement per branch, best placement rate first.
func (s *StatisticsService) Branchwise(ctx context.Context, p entity.Principal) (out BranchwiseStats, err error) {
	defer func() { err = report(s.logger, "officer.stats_branchwise", p.IdentityID, "", err) }()

	rows, err := s.store.Stats().StudentsByBranch(ctx)
	if err != nil {
		return out, storeErr(err, nil)
	}
	out.Branches = make([]BranchStat, 0, len(rows))
	var total entity.StudentCounts
	for _, r := range rows {
		st := studentStats(r.StudentCounts)
		out.Branches = append(out.Branches, BranchStat{
			Branch:              r.Branch,
			TotalStudents:       st.Total,
			PlacedStudents:      st.Placed,
			UnplacedStudents:    st.Unplaced,
			PlacementPercentage: st.PlacementPercentage,
		})
		total.Total += r.Total
		total.Placed += r.Placed
	}
	sort.SliceStable(out.Branches, func(i, j int) bool {
		return out.Branches[i].PlacementPercentage > out.Branches[j].PlacementPercentage
	})
	overall := studentStats(total)
	out.Overall.TotalStudents = overall.Total
	out.Overall.PlacedStudents = overall.Placed
	out.Overall.UnplacedStudents = overall.Unplaced
	out.Overall.PlacementPercentage = overall.PlacementPercentage
	out.Overall.TotalBranches = len(out.Branches)
	return out, nil
}

// JobFunnel reports, per job, how applications spread over the statuses
// and the stage conversion rates.
func (s *StatisticsService) JobFunnel(ctx context.Context, p entity.Principal) (out FunnelStats, err error) {
	defer func() { err = report(s.logger, "officer.stats_job_funnel", p.IdentityID, "", err) }()

	rows, err := s.store.Stats().JobFunnel(ctx)
	if err != nil {
		return out, storeErr(err, nil)
	}
	out.Jobs = make([]JobFunnel, 0, len(rows))
	for _, r := range rows {
		stages := fillStatuses(r.Stages)
		f := JobFunnel{
			JobID:                     r.JobID,
			Title:                     r.Title,
			CompanyName:               r.CompanyName,
			Stages:                    stages,
			AppliedToShortlistedRate:  percent(stages[entity.StatusShortlisted], stages[entity.StatusApplied]),
			ShortlistedToSelectedRate: percent(stages[entity.StatusSelected], stages[entity.StatusShortlisted]),
		}
		for _, n := range stages {
			f.TotalApplications += n
		}
		out.Jobs = append(out.Jobs, f)
	}
	out.TotalJobs = len(out.Jobs)
	return out, nil
}
