package service

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/port"
	"github.com/autobooks/dashboard-bfa-go/internal/resource"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// roomStore binds RoomsAPI to one credential.
type roomStore struct {
	api  port.RoomsAPI
	cred *domain.Credential
}

func (s roomStore) List(ctx context.Context) ([]domain.RoomType, error) {
	return s.api.ListRooms(ctx, s.cred)
}

func (s roomStore) Create(ctx context.Context, r domain.RoomType) (domain.RoomType, error) {
	return s.api.CreateRoom(ctx, s.cred, r)
}

func (s roomStore) Update(ctx context.Context, r domain.RoomType) (domain.RoomType, error) {
	return s.api.UpdateRoom(ctx, s.cred, r)
}

func (s roomStore) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteRoom(ctx, s.cred, id)
}

// RoomService manages the room types of an account.
type RoomService struct {
	api      port.RoomsAPI
	rooms    *resource.Registry[int64, domain.RoomType]
	sessions port.SessionCache
	logger   *zap.Logger
}

// NewRoomService creates the room service.
func NewRoomService(api port.RoomsAPI, sessions port.SessionCache, logger *zap.Logger) *RoomService {
	return &RoomService{
		api:      api,
		rooms:    resource.NewRegistry[int64, domain.RoomType](),
		sessions: sessionsOrNoop(sessions),
		logger:   logger,
	}
}

func (s *RoomService) manager(cred *domain.Credential) *resource.Manager[int64, domain.RoomType] {
	return resource.NewManager[int64, domain.RoomType]("Quarto", roomStore{api: s.api, cred: cred}, s.rooms.For(owner(cred)), domain.IsPlaceholderRoomID)
}

// List returns the rooms from the backend.
func (s *RoomService) List(ctx context.Context, cred *domain.Credential) ([]domain.RoomType, error) {
	ctx, span := tracer.Start(ctx, "RoomService.List")
	defer span.End()

	return s.manager(cred).List(ctx)
}

// Create saves a new room. A room without id gets a placeholder first.
func (s *RoomService) Create(ctx context.Context, cred *domain.Credential, room domain.RoomType) (domain.RoomType, error) {
	ctx, span := tracer.Start(ctx, "RoomService.Create")
	defer span.End()

	if room.ID == 0 {
		room.ID = domain.NewPlaceholderRoomID()
	}
	normalizeRoom(&room)
	if err := domain.Validate(room); err != nil {
		return domain.RoomType{}, err
	}

	saved, err := s.manager(cred).Create(ctx, room)
	if err != nil {
		s.logger.Warn("room create failed", zap.String("user_id", owner(cred)), zap.Error(err))
		return domain.RoomType{}, err
	}
	span.SetAttributes(attribute.Int64("room.id", saved.ID))
	s.sessions.Invalidate(ctx, owner(cred))
	s.logger.Info("room created", zap.String("user_id", owner(cred)), zap.Int64("room_id", saved.ID))
	return saved, nil
}

// Update replaces the saved room id.
func (s *RoomService) Update(ctx context.Context, cred *domain.Credential, id int64, room domain.RoomType) (domain.RoomType, error) {
	ctx, span := tracer.Start(ctx, "RoomService.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("room.id", id))

	room.ID = id
	normalizeRoom(&room)
	if err := domain.Validate(room); err != nil {
		return domain.RoomType{}, err
	}

	saved, err := s.manager(cred).Update(ctx, room)
	if err != nil {
		return domain.RoomType{}, err
	}
	s.sessions.Invalidate(ctx, owner(cred))
	return saved, nil
}

// Delete removes a room after explicit confirmation.
func (s *RoomService) Delete(ctx context.Context, cred *domain.Credential, id int64, confirmed bool) error {
	ctx, span := tracer.Start(ctx, "RoomService.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("room.id", id))

	if err := s.manager(cred).Delete(ctx, id, confirmed); err != nil {
		return err
	}
	s.sessions.Invalidate(ctx, owner(cred))
	s.logger.Info("room deleted", zap.String("user_id", owner(cred)), zap.Int64("room_id", id))
	return nil
}

// CountSaved returns how many rooms the backend holds for the account.
func (s *RoomService) CountSaved(ctx context.Context, cred *domain.Credential) (int, error) {
	rooms, err := s.List(ctx, cred)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rooms {
		if !domain.IsPlaceholderRoomID(r.ID) {
			n++
		}
	}
	return n, nil
}

// normalizeRoom fills defaults the form may leave out.
func normalizeRoom(r *domain.RoomType) {
	if r.Amenities == nil {
		r.Amenities = domain.NewAmenities()
	}
	if r.Beds == nil {
		r.Beds = []domain.BedConfiguration{}
	}
	if r.Photos == nil {
		r.Photos = []string{}
	}
	if r.TotalQuantity == 0 {
		r.TotalQuantity = 1
	}
}

// Drop forgets the local collection of userID.
func (s *RoomService) Drop(userID string) {
	s.rooms.Drop(userID)
}
