package panel

import (
	"fmt"

	"fragboard/internal/token"
	"fragboard/internal/view"
)

// Resolve is the navigation state machine's transition function: it maps a
// decoded button token onto the next position. Select-menu choices carry
// their value out of band and go through ResolveMenu instead.
func Resolve(req token.Request) (Position, error) {
	switch req := req.(type) {
	case token.TabSwitch:
		// Switching tab always restarts at the first page and sheds any
		// drill-down context.
		return Position{View: req.View}, nil
	case token.PageTurn:
		if !req.View.TopLevel() && req.Param == "" {
			// A drill-down pager token must carry its parent context;
			// without it back-navigation is broken, so reject the token
			// outright.
			return Position{}, fmt.Errorf("%w: drill-down pager without context", token.ErrInvalid)
		}
		return Position{
			View:       req.View,
			Page:       req.Page,
			Param:      req.Param,
			ParentPage: req.ParentPage,
		}, nil
	case token.MenuPick:
		return Position{}, fmt.Errorf("%w: menu token on a button", token.ErrInvalid)
	}
	return Position{}, fmt.Errorf("%w: unhandled request %T", token.ErrInvalid, req)
}

// ResolveMenu maps a select-menu choice onto the next position: the menu's
// view determines the drill-down child, the chosen value becomes the new
// filter label, and the menu's own page becomes the parent page. The child
// always starts at page zero.
func ResolveMenu(pick token.MenuPick, value string) (Position, error) {
	child := pick.View.Child()
	if child == view.None || value == "" {
		return Position{}, fmt.Errorf("%w: no drill-down for menu on %s", token.ErrInvalid, pick.View)
	}
	return Position{
		View:       child,
		Param:      value,
		ParentPage: pick.Page,
	}, nil
}
