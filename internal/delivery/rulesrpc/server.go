package rulesrpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"goban_rules/internal/domain/game"
	errs "goban_rules/internal/errors"
	gameuc "goban_rules/internal/usecase/game"
)

type Server struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

func NewServer(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *Server {
	return &Server{log: log, gameUC: gameUC}
}

func (s *Server) State(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	state, err := s.gameUC.State(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}
	prisoners := make(map[string]any, len(state.Prisoners))
	for c, n := range state.Prisoners {
		prisoners[c] = n
	}
	return structpb.NewStruct(map[string]any{
		"game_id":    state.GameID,
		"board_size": state.BoardSize,
		"ko_rule":    state.KoRule,
		"rows":       anyList(state.Rows),
		"move_count": state.MoveCount,
		"prisoners":  prisoners,
		"status":     state.Status,
	})
}

func (s *Server) CheckMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	legality, err := s.gameUC.CheckMove(ctx, moveOf(in))
	if err != nil {
		return nil, s.toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"legal":  legality.Legal,
		"reason": legality.Reason,
	})
}

func (s *Server) PlayMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.gameUC.PlayMove(ctx, moveOf(in))
	if err != nil {
		return nil, s.toStatus(err)
	}
	return moveResult(res)
}

func (s *Server) Undo(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.gameUC.Undo(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return moveResult(res)
}

func moveOf(in *structpb.Struct) game.Move {
	fields := in.GetFields()
	return game.Move{
		Color:       fields["color"].GetStringValue(),
		Coordinates: fields["coordinates"].GetStringValue(),
	}
}

func moveResult(res game.MoveResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"color":       res.Move.Color,
		"coordinates": res.Move.Coordinates,
		"captured":    anyList(res.Captured),
	})
}

func anyList(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

// toStatus maps an illegal move to FailedPrecondition with the reason as
// the message.
func (s *Server) toStatus(err error) error {
	if reason, ok := gameuc.IsIllegal(err); ok {
		return status.Error(codes.FailedPrecondition, reason.String())
	}
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrInvalidState):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, errs.ErrRecordNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	s.log.Errorf("rules rpc failed: %v", err)
	return status.Error(codes.Internal, "internal error")
}
