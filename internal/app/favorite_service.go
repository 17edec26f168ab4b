package app

import (
	"context"
	"errors"

	"moodmatch/internal/model"
	"moodmatch/internal/repository"
)

var ErrSongNotFound = errors.New("song not found")

// LikedCache caches liked song ids per user.
type LikedCache interface {
	GetLiked(ctx context.Context, userID uint) ([]uint, bool, error)
	SetLiked(ctx context.Context, userID uint, ids []uint) error
	Invalidate(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	songRepo     *repository.SongRepository
	likedCache   LikedCache
}

func NewFavoriteService(favoriteRepo *repository.FavoriteRepository, songRepo *repository.SongRepository, likedCache LikedCache) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		songRepo:     songRepo,
		likedCache:   likedCache,
	}
}

func (s *FavoriteService) Like(ctx context.Context, userID, songID uint) error {
	if userID == 0 || songID == 0 {
		return ErrInvalidInput
	}
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return err
	}
	if song == nil || !song.IsActive {
		return ErrSongNotFound
	}
	s.invalidate(ctx, userID)
	return s.favoriteRepo.Add(ctx, userID, songID)
}

func (s *FavoriteService) Unlike(ctx context.Context, userID, songID uint) error {
	if userID == 0 || songID == 0 {
		return ErrInvalidInput
	}
	s.invalidate(ctx, userID)
	return s.favoriteRepo.Remove(ctx, userID, songID)
}

func (s *FavoriteService) List(ctx context.Context, userID uint, limit int) ([]model.FavoriteSong, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.favoriteRepo.ListByUser(ctx, userID, limit)
}

// LikedSongIDs serves from the cache unless a recent write marked it dirty.
func (s *FavoriteService) LikedSongIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	if s.likedCache != nil {
		dirty, err := s.likedCache.IsDirty(ctx, userID)
		if err == nil && !dirty {
			if ids, hit, cacheErr := s.likedCache.GetLiked(ctx, userID); cacheErr == nil && hit {
				return toSet(ids), nil
			}
		}
	}

	ids, err := s.favoriteRepo.SongIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.likedCache != nil {
		if dirty, dirtyErr := s.likedCache.IsDirty(ctx, userID); dirtyErr == nil && !dirty {
			_ = s.likedCache.SetLiked(ctx, userID, ids)
		}
	}
	return toSet(ids), nil
}

func (s *FavoriteService) invalidate(ctx context.Context, userID uint) {
	if s.likedCache != nil {
		_ = s.likedCache.Invalidate(ctx, userID)
	}
}

func toSet(ids []uint) map[uint]struct{} {
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
