// Package repositories implements the data access layer over PostgreSQL.
// Repositories accept an optional txmanager.Session so writes can join the
// caller's transaction.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"
	"github.com/bionicotaku/lingo-services-media/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrVideoNotFound marks a lookup for a video id that has no row.
var ErrVideoNotFound = errors.New("video not found")

// VideoRepository persists and queries media.videos.
type VideoRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewVideoRepository constructs the repository.
func NewVideoRepository(pool *pgxpool.Pool, logger log.Logger) *VideoRepository {
	return &VideoRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// CreateVideoInput carries the fields for a new catalog record. The video
// blob is required; the thumbnail may be nil.
type CreateVideoInput struct {
	VideoID      uuid.UUID
	Title        string
	Description  *string
	IsPrivate    bool
	UploaderID   uuid.UUID
	UploaderName string
	VideoFile    po.StoredFile
	Thumbnail    *po.StoredFile
}

// Create inserts the record and returns it with the database-assigned seq
// and created_at (UTC, monotonic with insertion order).
func (r *VideoRepository) Create(ctx context.Context, sess txmanager.Session, input CreateVideoInput) (*po.Video, error) {
	query := `
		INSERT INTO media.videos (
			video_id, title, description, is_private, uploader_id, uploader_name,
			video_original_filename, video_stored_filename, video_content_type, video_size_bytes, video_file_path,
			thumb_original_filename, thumb_stored_filename, thumb_content_type, thumb_size_bytes, thumb_file_path
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING seq, created_at
	`

	thumbOrig, thumbStored, thumbCT, thumbSize, thumbPath := mappers.ThumbnailParams(input.Thumbnail)

	video := &po.Video{
		VideoID:       input.VideoID,
		Title:         input.Title,
		Description:   input.Description,
		IsPrivate:     input.IsPrivate,
		UploaderID:    input.UploaderID,
		UploaderName:  input.UploaderName,
		VideoFile:     input.VideoFile,
		ThumbnailFile: input.Thumbnail,
	}

	err := r.querier(sess).QueryRow(ctx, query,
		input.VideoID, input.Title, mappers.NullableText(input.Description), input.IsPrivate,
		input.UploaderID, input.UploaderName,
		input.VideoFile.OriginalFilename, input.VideoFile.StoredFilename, input.VideoFile.ContentType,
		input.VideoFile.SizeBytes, input.VideoFile.FilePath,
		thumbOrig, thumbStored, thumbCT, thumbSize, thumbPath,
	).Scan(&video.Seq, &video.CreatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("insert video failed: video_id=%s err=%v", input.VideoID, err)
		return nil, fmt.Errorf("insert video: %w", err)
	}
	video.CreatedAt = video.CreatedAt.UTC()
	return video, nil
}

// FindByID loads one record by id, ErrVideoNotFound when absent.
func (r *VideoRepository) FindByID(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.Video, error) {
	query := `SELECT ` + mappers.VideoColumns + ` FROM media.videos WHERE video_id = $1`

	video, err := mappers.ScanVideo(r.querier(sess).QueryRow(ctx, query, videoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video by id: %w", err)
	}
	return video, nil
}

// visibilityPredicate admits public rows to everyone and private rows only
// to their uploader. callerID is NULL for anonymous callers.
const visibilityPredicate = `(NOT is_private OR ($1::uuid IS NOT NULL AND uploader_id = $1))`

// FindVisible lists records visible to the caller, newest first with a
// stable insertion-order tie-break.
func (r *VideoRepository) FindVisible(ctx context.Context, sess txmanager.Session, callerID *uuid.UUID) ([]*po.Video, error) {
	query := `SELECT ` + mappers.VideoColumns + `
		FROM media.videos
		WHERE ` + visibilityPredicate + `
		ORDER BY created_at DESC, seq DESC`

	return r.queryVideos(ctx, sess, query, callerID)
}

// SearchVisible restricts FindVisible to rows whose title or description
// contains the term, case-insensitively.
func (r *VideoRepository) SearchVisible(ctx context.Context, sess txmanager.Session, term string, callerID *uuid.UUID) ([]*po.Video, error) {
	query := `SELECT ` + mappers.VideoColumns + `
		FROM media.videos
		WHERE ` + visibilityPredicate + `
		  AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, seq DESC`

	return r.queryVideos(ctx, sess, query, callerID, term)
}

func (r *VideoRepository) queryVideos(ctx context.Context, sess txmanager.Session, query string, args ...any) ([]*po.Video, error) {
	rows, err := r.querier(sess).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []*po.Video
	for rows.Next() {
		video, scanErr := mappers.ScanVideo(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan video row: %w", scanErr)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}
	return videos, nil
}

func (r *VideoRepository) querier(sess txmanager.Session) querier {
	if sess != nil && sess.Tx() != nil {
		return sess.Tx()
	}
	return r.pool
}
