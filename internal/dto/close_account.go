package dto

import "github.com/cactus377/japede-cardapio/internal/domain"

// CloseAccountResult reports a settled table account. Warnings carry the
// non-fatal outcomes: an unattributed sale (no open cash session) or a table
// release that failed after the order was already settled.
type CloseAccountResult struct {
	Order        *domain.Order
	Unattributed bool
	Table        *domain.Table
	Warnings     []string
}
