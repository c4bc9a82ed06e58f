package movies

import (
	"context"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/metrics"
)

const trailerFailureMessage = "Failed to retrieve trailer"

// GetTrailer serves the stored trailer id or resolves and persists it on a
// miss. A stored id is never overwritten; no match is not cached.
func (s *service) GetTrailer(ctx context.Context, externalID int) (*TrailerDTO, error) {
	movie, err := s.GetMovieEntityByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithMovieID(ctx, movie.ExternalID)

	if movie.HasTrailer() {
		s.metrics.IncResult(metrics.TrailerResultHit)
		return &TrailerDTO{VideoID: movie.VideoID}, nil
	}

	videoID, err := s.lookupTrailer(ctx, movie)
	if err != nil {
		s.metrics.IncResult(metrics.TrailerResultFailure)
		s.logg.Error(ctx, "trailer.lookup_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, trailerFailureMessage).Public()
	}
	if videoID == "" {
		s.metrics.IncResult(metrics.TrailerResultNoMatch)
		return &TrailerDTO{}, nil
	}

	stored, err := s.persistTrailer(ctx, movie.ID, videoID)
	if err != nil {
		s.metrics.IncResult(metrics.TrailerResultFailure)
		s.logg.Error(ctx, "trailer.persist_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, trailerFailureMessage).Public()
	}

	s.metrics.IncResult(metrics.TrailerResultMiss)
	s.logg.Info(s.logg.WithField(ctx, "video_id", stored), "trailer.resolved")
	return &TrailerDTO{VideoID: &stored}, nil
}

func (s *service) lookupTrailer(ctx context.Context, movie *models.Movie) (string, error) {
	if s.trailers == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "trailer search not configured")
	}
	started := time.Now()
	videoID, err := s.trailers.FindTrailer(ctx, movie.Title)
	s.metrics.ObserveLookup(time.Since(started))
	return videoID, err
}

// persistTrailer writes videoID unless a concurrent request stored one
// first, in which case the stored value wins.
func (s *service) persistTrailer(ctx context.Context, movieID uint, videoID string) (string, error) {
	written, err := s.repo.SetVideoIDIfEmpty(ctx, movieID, videoID)
	if err != nil {
		return "", err
	}
	if written {
		return videoID, nil
	}

	current, err := s.repo.FindVideoID(ctx, movieID)
	if err != nil {
		return "", err
	}
	if current == nil || *current == "" {
		return videoID, nil
	}
	return *current, nil
}
