package model

// PageRequest はページネーション付き一覧取得のリクエストを表す。
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset はページ先頭までのスキップ件数を返す。
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Validate はページネーションパラメータを検証する。
// page < 1、pageSize < 1、pageSize > maxPageSize の場合はInvalidPaginationエラーを返す。
func (p PageRequest) Validate(maxPageSize int) error {
	if p.Page < 1 {
		return NewInvalidPaginationError("ページ番号は1以上を指定してください。")
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		return NewInvalidPaginationError("ページサイズは1以上、上限以下で指定してください。")
	}
	return nil
}

// PageResult はページネーション付き一覧のレスポンスエンベロープを表す。
// TotalCountはページ切り出しと同一のフィルタ条件で算出する。
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult はページ切り出し結果と総件数からPageResultを組み立てる。
// TotalPages = ceil(totalCount / pageSize)。totalCount = 0 のときのみ0になる。
func NewPageResult[T any](items []T, req PageRequest, totalCount int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + req.PageSize - 1) / req.PageSize
	}
	return PageResult[T]{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// TaskFilter はタスク一覧の絞り込み条件を表す。
// 所有者スコープはリポジトリ側で必ず適用されるため、ここには含めない。
type TaskFilter struct {
	// Completed がnil以外の場合、完了状態で完全一致フィルタする。
	Completed *bool
	// Search が空でない場合、タイトルの大文字小文字を区別しない部分一致で絞り込む。
	Search string
}
