package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates no content can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckLoading indicates a collection that has not finished its first load.
	CheckLoading CheckResult = "loading"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	contents []ContentChecker
}

// New creates a Service. db can be nil when content is served from files.
func New(db DBPinger, contents ...ContentChecker) *Service {
	return &Service{db: db, contents: contents}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.contents)+1)

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	served := 0
	for _, c := range s.contents {
		st := c.State()
		name := "content:" + string(c.Type())
		switch {
		case st.Data != nil:
			checks[name] = CheckOK
			served++
		case st.Err != "":
			checks[name] = CheckError
		default:
			checks[name] = CheckLoading
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}
	if len(s.contents) > 0 && served == 0 {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
