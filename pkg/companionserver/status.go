package companionserver

import (
	"context"
	"net/http"
	"time"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
)

const probeTimeout = 2 * time.Second

func (s *Server) jsonServiceInfo(w http.ResponseWriter, req *http.Request) {
	RespondWithJSON(http.StatusOK, w, apiv1.ServiceInfo{
		Service: ServiceName,
		Version: Version,
	})
}

// jsonHealth probes each collaborator and always answers 200; failures are
// reported as degraded fields, never as an error response.
func (s *Server) jsonHealth(w http.ResponseWriter, req *http.Request) {
	health := apiv1.Health{
		Status:   apiv1.HealthOK,
		Version:  Version,
		Database: s.probe(req.Context(), s.sessions.HealthCheck),
		Cache:    s.probeCache(),
		LLM:      s.probe(req.Context(), s.llm.HealthCheck),
	}

	if !health.Database.OK || !health.Cache.OK || !health.LLM.OK {
		health.Status = apiv1.HealthDegraded
	}

	RespondWithJSON(http.StatusOK, w, health)
}

func (s *Server) probe(ctx context.Context, check func(context.Context) error) apiv1.DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := check(ctx); err != nil {
		return apiv1.DependencyStatus{OK: false, Detail: err.Error()}
	}
	return apiv1.DependencyStatus{OK: true}
}

func (s *Server) probeCache() apiv1.DependencyStatus {
	if s.cache == nil {
		return apiv1.DependencyStatus{OK: true, Detail: "not configured"}
	}

	if err := s.cache.Ping(); err != nil {
		return apiv1.DependencyStatus{OK: false, Detail: err.Error()}
	}
	return apiv1.DependencyStatus{OK: true}
}
