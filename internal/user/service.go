// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
)

// CreateResult はユーザー作成の結果。
// 既存emailに対する作成はエラーではなく、InsertedIDがnilの成功として報告される。
type CreateResult struct {
	Message    string  `json:"message,omitempty"`
	InsertedID *string `json:"insertedId"`
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreateIfAbsent はemailが未登録の場合のみユーザーを作成する。
// 既存emailの場合は作成せず、nullのinsertedIdを持つソフトコンフリクトを返す。
//
// 存在確認と挿入の間にはロックがないため、同一emailの同時作成は両方が
// 「未登録」を観測しうる。ストアのunique制約が最終的な防波堤になる。
func (s *Service) CreateIfAbsent(ctx context.Context, u *model.User) (*CreateResult, error) {
	existing, err := s.userRepo.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return &CreateResult{Message: "user already exist", InsertedID: nil}, nil
	}

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("user created",
		slog.String("user_id", u.ID),
		slog.String("email", u.Email),
	)

	return &CreateResult{InsertedID: &u.ID}, nil
}

// IsAdmin は指定emailのユーザーが管理者ロールかどうかを返す。
// レコードが存在しない場合は非管理者として扱う。
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	return u.IsAdmin(), nil
}

// List は全ユーザーを返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// PromoteToAdmin は指定IDのユーザーのロールをadminに更新する。
// 2回目以降の呼び出しは初回以降の状態を変えない（冪等）。
func (s *Service) PromoteToAdmin(ctx context.Context, id string) (int64, error) {
	modified, err := s.userRepo.PromoteToAdmin(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("管理者への昇格に失敗しました: %w", err)
	}

	slog.Info("user promoted to admin",
		slog.String("user_id", id),
	)

	return modified, nil
}

// Delete は指定IDのユーザーを削除する。
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	deleted, err := s.userRepo.DeleteByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}
	return deleted, nil
}
