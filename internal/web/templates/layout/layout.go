// Package layout holds the page chrome shared by every HTML page.
package layout

import "github.com/mcoot/tictactoe-go/internal/model"

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error or info
	Message string
}

// PageData is embedded by every page's data
type PageData struct {
	Title  string
	Player *model.Player
	Flash  *FlashMessage
}
