package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// dataEnvelope is the {"data": ...} wrapper used by rooms and uploads.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// one decodes data that is either a single object or a one-element array.
func one[T any](raw json.RawMessage) (T, error) {
	var zero T
	if len(raw) == 0 || string(raw) == "null" {
		return zero, fmt.Errorf("empty data")
	}
	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return zero, err
		}
		if len(list) == 0 {
			return zero, fmt.Errorf("empty data")
		}
		return list[0], nil
	}
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

func many[T any](raw json.RawMessage) ([]T, error) {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRooms returns every room type; empty is valid.
func (c *Client) ListRooms(ctx context.Context, cred *domain.Credential) ([]domain.RoomType, error) {
	var env dataEnvelope
	if err := c.do(ctx, call{ep: epListRooms, cred: cred, out: &env}); err != nil {
		return nil, err
	}
	rooms, err := many[domain.RoomType](env.Data)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/" + epListRooms.name, Err: err}
	}
	return rooms, nil
}

// CreateRoom saves a new room. The backend takes a list and echoes the
// saved rows; the placeholder id is never sent.
func (c *Client) CreateRoom(ctx context.Context, cred *domain.Credential, room domain.RoomType) (domain.RoomType, error) {
	room.ID = 0
	var env dataEnvelope
	if err := c.do(ctx, call{ep: epCreateRoom, cred: cred, body: []domain.RoomType{room}, out: &env}); err != nil {
		return domain.RoomType{}, err
	}
	saved, err := one[domain.RoomType](env.Data)
	if err != nil {
		return domain.RoomType{}, &domain.ErrExternalService{Service: "backend/" + epCreateRoom.name, Err: err}
	}
	return saved, nil
}

// UpdateRoom fully replaces a saved room.
func (c *Client) UpdateRoom(ctx context.Context, cred *domain.Credential, room domain.RoomType) (domain.RoomType, error) {
	var env dataEnvelope
	err := c.do(ctx, call{
		ep:   epUpdateRoom,
		cred: cred,
		args: []any{strconv.FormatInt(room.ID, 10)},
		body: room,
		out:  &env,
	})
	if err != nil {
		return domain.RoomType{}, err
	}
	saved, err := one[domain.RoomType](env.Data)
	if err != nil {
		// empty 200: echo what was sent
		return room, nil
	}
	return saved, nil
}

// DeleteRoom removes a saved room.
func (c *Client) DeleteRoom(ctx context.Context, cred *domain.Credential, id int64) error {
	return c.do(ctx, call{ep: epDeleteRoom, cred: cred, args: []any{strconv.FormatInt(id, 10)}})
}
