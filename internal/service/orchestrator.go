package service

import (
	"context"
	"time"

	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

// TurnConfig bounds a single conversation turn.
type TurnConfig struct {
	// RecentWindow is how many newest memories load into the turn context.
	RecentWindow int
	// RelevantLimit is the top-K for relevance retrieval.
	RelevantLimit int
	// MaxActions caps how many planned actions may execute per turn.
	MaxActions int
	// PriorityThreshold is the minimum priority an action needs to execute;
	// lower-priority actions surface as suggestions instead.
	PriorityThreshold int
}

func DefaultTurnConfig() TurnConfig {
	return TurnConfig{
		RecentWindow:      5,
		RelevantLimit:     3,
		MaxActions:        3,
		PriorityThreshold: PriorityRoutine,
	}
}

// Orchestrator runs the turn pipeline: load context, plan, respond, record
// the exchange, execute the top planned actions. It always produces a
// TurnResult; collaborator failures degrade the turn rather than fail it,
// except context loading, which is terminal and yields the apology response.
type Orchestrator struct {
	profiles  domain.ProfileStore
	documents domain.DocumentStore
	memories  *MemoryService
	retriever *Retriever
	planner   *Planner
	executor  *Executor
	responder *Responder
	cfg       TurnConfig
	logger    *zap.Logger

	now func() time.Time
}

func NewOrchestrator(
	profiles domain.ProfileStore,
	documents domain.DocumentStore,
	memories *MemoryService,
	retriever *Retriever,
	planner *Planner,
	executor *Executor,
	responder *Responder,
	cfg TurnConfig,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 5
	}
	if cfg.RelevantLimit <= 0 {
		cfg.RelevantLimit = 3
	}
	if cfg.MaxActions <= 0 {
		cfg.MaxActions = 3
	}
	if cfg.PriorityThreshold <= 0 {
		cfg.PriorityThreshold = PriorityRoutine
	}
	return &Orchestrator{
		profiles:  profiles,
		documents: documents,
		memories:  memories,
		retriever: retriever,
		planner:   planner,
		executor:  executor,
		responder: responder,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessMessage runs one conversation turn for userID. It never panics and
// never returns an error; the worst outcome is the apology response.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userID, message string, metadata map[string]any) (result *domain.TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("turn panicked", zap.String("user_id", userID), zap.Any("panic", r))
			result = &domain.TurnResult{Response: ResponseApology}
		}
	}()

	profile, err := o.profiles.Get(ctx, userID)
	if err != nil {
		o.logger.Error("loading profile failed", zap.String("user_id", userID), zap.Error(err))
		return &domain.TurnResult{Response: ResponseApology}
	}
	if profile == nil {
		return &domain.TurnResult{Response: ResponseNeedsProfile, NeedsProfile: true}
	}

	tc, err := o.loadContext(ctx, userID, profile, message, metadata)
	if err != nil {
		o.logger.Error("loading turn context failed", zap.String("user_id", userID), zap.Error(err))
		return &domain.TurnResult{Response: ResponseApology}
	}

	actions := o.planner.Plan(profile, tc)

	response := o.responder.Respond(ctx, userID, message, profile, tc, actions)

	if err := o.memories.RememberConversation(ctx, userID, message, response, tc); err != nil {
		o.logger.Warn("recording conversation failed", zap.String("user_id", userID), zap.Error(err))
	}

	executed, suggestions := o.runActions(ctx, userID, actions, tc)

	return &domain.TurnResult{
		Response:        response,
		ExecutedActions: executed,
		Suggestions:     suggestions,
		Context:         tc,
		NeedsProfile:    false,
	}
}

func (o *Orchestrator) loadContext(ctx context.Context, userID string, profile *domain.Profile, message string, metadata map[string]any) (*domain.TurnContext, error) {
	recent, err := o.memories.Recent(ctx, userID, o.cfg.RecentWindow)
	if err != nil {
		return nil, err
	}
	relevant, err := o.retriever.Retrieve(ctx, userID, message, o.cfg.RelevantLimit)
	if err != nil {
		return nil, err
	}
	docs, err := o.documents.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	if info := ExtractContractionInfo(message); info != nil {
		metadata["contraction_data"] = info
	}

	return &domain.TurnContext{
		Profile:          profile,
		RecentMemories:   recent,
		RelevantMemories: relevant,
		Documents:        docs,
		Metadata:         metadata,
		Now:              o.now(),
	}, nil
}

// runActions executes planned actions in priority order, at most MaxActions
// and only those at or above the threshold. Everything else is returned as a
// suggestion for the client to surface.
func (o *Orchestrator) runActions(ctx context.Context, userID string, actions []domain.Action, tc *domain.TurnContext) ([]domain.ExecutedAction, []domain.Action) {
	var executed []domain.ExecutedAction
	var suggestions []domain.Action

	for i := range actions {
		action := &actions[i]
		if len(executed) >= o.cfg.MaxActions || action.Priority < o.cfg.PriorityThreshold {
			suggestions = append(suggestions, *action)
			continue
		}
		result := o.executor.Execute(ctx, action, userID, tc)
		executed = append(executed, domain.ExecutedAction{
			Kind:        action.Kind,
			Description: action.Description,
			Result:      result,
		})
	}
	return executed, suggestions
}
