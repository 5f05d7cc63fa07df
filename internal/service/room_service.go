package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
)

type RoomService struct {
	roomRepo repository.RoomRepository
}

// roomRepo — pool-репозиторий для чтений вне транзакции (история, авторизация).
func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// ResolveOrCreate находит или создаёт единственную комнату пары внутри
// транзакции отправки. Комнаты не удаляются и не сливаются.
//
// Гонка первого контакта: две параллельные отправки упираются в уникальный
// индекс по pair_key; проигравшая вставка получает ErrAlreadyExists и делает
// ровно один повторный поиск. Если и он пуст — ErrRoomConflict наружу.
func (s *RoomService) ResolveOrCreate(ctx context.Context, uow repository.UnitOfWork, a, b domain.Participant) (*domain.Room, error) {
	room, err := domain.NewRoom(a, b)
	if err != nil {
		return nil, err
	}

	existing, err := uow.Rooms().GetByPairKey(ctx, room.PairKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("rooms.GetByPairKey: %w", err)
	}

	err = uow.Rooms().Create(ctx, room)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrAlreadyExists) {
		return nil, fmt.Errorf("rooms.Create: %w", err)
	}

	existing, err = uow.Rooms().GetByPairKey(ctx, room.PairKey)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrRoomConflict
	}

	return nil, fmt.Errorf("rooms.GetByPairKey retry: %w", err)
}

// GetRoom — чтение комнаты вне транзакции.
func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.roomRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	return room, nil
}
