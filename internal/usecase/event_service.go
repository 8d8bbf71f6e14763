package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
	"github.com/fulbitoplay/prediction-pool/internal/platform/id"
)

// MatchDetail decorates a match with the caller's own prediction and
// unlock flag for the event detail view.
type MatchDetail struct {
	Match      match.Match
	Prediction *prediction.Prediction
	Unlocked   bool
}

type EventDetail struct {
	Event   event.Event
	IsVip   bool
	Matches []MatchDetail
}

type EventService struct {
	userRepo       user.Repository
	eventRepo      event.Repository
	matchRepo      match.Repository
	entRepo        entitlement.Repository
	predictionRepo prediction.Repository
	ids            id.Generator
	now            func() time.Time
}

func NewEventService(
	userRepo user.Repository,
	eventRepo event.Repository,
	matchRepo match.Repository,
	entRepo entitlement.Repository,
	predictionRepo prediction.Repository,
	ids id.Generator,
) *EventService {
	return &EventService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		matchRepo:      matchRepo,
		entRepo:        entRepo,
		predictionRepo: predictionRepo,
		ids:            ids,
		now:            time.Now,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, actorID, name string, closeDate time.Time) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.CreateEvent")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return event.Event{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return event.Event{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if closeDate.IsZero() {
		return event.Event{}, fmt.Errorf("%w: event close date is required", ErrInvalidInput)
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return event.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	ev := event.Event{
		ID:        eventID,
		Name:      name,
		Status:    event.StatusOpen,
		CloseDate: closeDate.UTC(),
		CreatedAt: s.now().UTC(),
	}
	if err := ev.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.eventRepo.Create(ctx, ev); err != nil {
		return event.Event{}, fmt.Errorf("create event: %w", err)
	}

	return ev, nil
}

func (s *EventService) ListOpenEvents(ctx context.Context) ([]event.Event, error) {
	events, err := s.eventRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open events: %w", err)
	}

	return events, nil
}

// ListAllEvents includes finished events. Admin only.
func (s *EventService) ListAllEvents(ctx context.Context, actorID string) ([]event.Event, error) {
	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

// GetEventForUser assembles the event detail view: matches decorated
// with the caller's predictions, unlock flags and VIP status.
func (s *EventService) GetEventForUser(ctx context.Context, eventID, userID string) (EventDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetEventForUser")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return EventDetail{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	u, err := fetchUser(ctx, s.userRepo, userID)
	if err != nil {
		return EventDetail{}, err
	}

	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return EventDetail{}, fmt.Errorf("get event by id: %w", err)
	}
	if !exists {
		return EventDetail{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	matches, err := s.matchRepo.ListByEvent(ctx, ev.ID)
	if err != nil {
		return EventDetail{}, fmt.Errorf("list matches by event: %w", err)
	}

	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}

	predictions, err := s.predictionRepo.ListByUserAndMatchIDs(ctx, u.ID, matchIDs)
	if err != nil {
		return EventDetail{}, fmt.Errorf("list user predictions: %w", err)
	}
	predictionsByMatch := make(map[string]prediction.Prediction, len(predictions))
	for _, p := range predictions {
		predictionsByMatch[p.MatchID] = p
	}

	unlockedIDs, err := s.entRepo.ListUnlockedMatches(ctx, u.ID, ev.ID)
	if err != nil {
		return EventDetail{}, fmt.Errorf("list unlocked matches: %w", err)
	}
	unlocked := make(map[string]struct{}, len(unlockedIDs))
	for _, matchID := range unlockedIDs {
		unlocked[matchID] = struct{}{}
	}

	isVip, err := s.entRepo.HasVip(ctx, u.ID, ev.ID)
	if err != nil {
		return EventDetail{}, fmt.Errorf("check vip: %w", err)
	}

	detail := EventDetail{
		Event:   ev,
		IsVip:   isVip,
		Matches: make([]MatchDetail, 0, len(matches)),
	}
	for _, m := range matches {
		md := MatchDetail{Match: m}
		if p, ok := predictionsByMatch[m.ID]; ok {
			userPrediction := p
			md.Prediction = &userPrediction
		}
		if _, ok := unlocked[m.ID]; ok {
			md.Unlocked = true
		}
		detail.Matches = append(detail.Matches, md)
	}

	return detail, nil
}

func (s *EventService) AddMatch(ctx context.Context, actorID, eventID, localTeam, visitorTeam string, matchDatetime time.Time) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.AddMatch")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return match.Match{}, err
	}

	eventID = strings.TrimSpace(eventID)
	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get event by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}
	if ev.Status == event.StatusFinished {
		return match.Match{}, fmt.Errorf("%w: %s", event.ErrFinished, ev.ID)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	m := match.Match{
		ID:            matchID,
		EventID:       ev.ID,
		LocalTeam:     strings.TrimSpace(localTeam),
		VisitorTeam:   strings.TrimSpace(visitorTeam),
		MatchDatetime: matchDatetime.UTC(),
	}
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	return m, nil
}

func (s *EventService) UpdateMatch(ctx context.Context, actorID, matchID, localTeam, visitorTeam string, matchDatetime time.Time) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.UpdateMatch")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return match.Match{}, err
	}

	matchID = strings.TrimSpace(matchID)
	current, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	current.LocalTeam = strings.TrimSpace(localTeam)
	current.VisitorTeam = strings.TrimSpace(visitorTeam)
	current.MatchDatetime = matchDatetime.UTC()
	if err := current.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ok, err := s.matchRepo.Update(ctx, current)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return current, nil
}

func (s *EventService) DeleteMatch(ctx context.Context, actorID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.DeleteMatch")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return err
	}

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ok, err := s.matchRepo.Delete(ctx, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return nil
}

func (s *EventService) DeleteEvent(ctx context.Context, actorID, eventID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.DeleteEvent")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return err
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	ok, err := s.eventRepo.Delete(ctx, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	return nil
}
