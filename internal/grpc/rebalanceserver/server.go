package rebalanceserver

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/setup"
	"github.com/mitchelldurbincs/spreadstarts/internal/snapshot"
	"github.com/mitchelldurbincs/spreadstarts/internal/store"
)

// Options configures a Server
type Options struct {
	MaxParticipants int
	MinHumans       int
	Recorder        store.Recorder   // nil disables run history
	Publisher       events.Publisher // nil drops events
	Logger          zerolog.Logger
}

// Server implements RebalanceService. Each request carries a full snapshot,
// so the server holds no game state between calls.
type Server struct {
	opts   Options
	logger zerolog.Logger
}

// NewServer creates a new rebalance server
func NewServer(opts Options) *Server {
	return &Server{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "RebalanceServer").Logger(),
	}
}

// Register adds the rebalance, health and (optionally) reflection services
// to s and returns the health server so callers can flip it on shutdown
func Register(s *grpc.Server, srv *Server, enableReflection bool) *health.Server {
	RegisterRebalanceServiceServer(s, srv)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if enableReflection {
		reflection.Register(s)
	}
	return healthServer
}

// Rebalance parses the snapshot in req, runs the setup pipeline on it and
// reports the outcome along with the resulting placement. Set "dry_run" to
// true to plan without applying swaps to the returned placement.
func (s *Server) Rebalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	data, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "unreadable request: %v", err)
	}
	snap, err := snapshot.Parse(data)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid snapshot: %v", err)
	}
	dryRun := req.GetFields()["dry_run"].GetBoolValue()

	r := setup.NewRebalancer(setup.Config{
		GameID:          snap.GameID,
		Oracle:          snap.Oracle(),
		MaxParticipants: s.opts.MaxParticipants,
		MinHumans:       s.opts.MinHumans,
		DryRun:          dryRun,
		Publisher:       s.opts.Publisher,
		Recorder:        s.opts.Recorder,
		Logger:          s.logger,
	})

	out, err := r.Run(ctx, snap.Roster)
	switch {
	case err == nil:
	case errors.Is(err, setup.ErrRecordFailed):
		// The run itself succeeded; history is best effort
		s.logger.Warn().Err(err).Str("run_id", out.RunID).Msg("Returning unrecorded rebalance run")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, status.FromContextError(err).Err()
	default:
		return nil, status.Errorf(codes.Internal, "rebalance failed: %v", err)
	}

	resp, err := structpb.NewStruct(encodeOutcome(out, snap.Roster))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

func encodeOutcome(out setup.Outcome, roster core.Roster) map[string]interface{} {
	winner := make([]interface{}, len(out.Winner))
	for i, p := range out.Winner {
		winner[i] = map[string]interface{}{
			"id":       int(p.ID),
			"human":    p.Human,
			"position": int(p.Position),
		}
	}

	swaps := make([]interface{}, len(out.Moves))
	for i, m := range out.Moves {
		swaps[i] = map[string]interface{}{
			"human_id": int(m.Human),
			"other_id": int(m.Other),
			"from":     int(m.From),
			"to":       int(m.To),
		}
	}

	placement := make([]interface{}, len(roster))
	for i, p := range roster {
		placement[i] = map[string]interface{}{
			"id":       int(p.ID),
			"name":     p.Name,
			"human":    p.Human,
			"position": int(p.Position),
		}
	}

	return map[string]interface{}{
		"run_id":       out.RunID,
		"game_id":      out.GameID,
		"status":       out.Status.String(),
		"reason":       out.Reason,
		"dry_run":      out.DryRun,
		"winner":       winner,
		"swaps":        swaps,
		"participants": placement,
		"stats": map[string]interface{}{
			"humans":           out.Humans,
			"ais":              out.AIs,
			"min_distance":     out.Profile.Min,
			"sum_distance":     out.Profile.Sum,
			"enumerated":       out.Stats.Enumerated,
			"rejected":         out.Stats.Rejected,
			"tie_breaks":       out.Stats.TieBreaks,
			"distance_queries": out.Queries,
		},
		"duration_ms": float64(out.Duration.Microseconds()) / 1000,
	}
}
