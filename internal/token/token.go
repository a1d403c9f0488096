// Package token encodes and decodes the custom IDs carried by the panel's
// interactive components. A token is the only state that survives between
// rendering a control and the user clicking it, so it must round-trip the
// full navigation position: view, page, and any drill-down context.
//
// The wire grammar is colon-delimited and arity-switched:
//
//	ui:<view>                                    tab switch
//	ui:<view>:<prev|next>:<page>                 pager click
//	ui:<view>:sel:<page>                         select menu (value arrives out of band)
//	ui:<view>:<prev|next>:<page>:<label>:<ppage> pager click inside a drill-down
//
// The drill-down label is percent-encoded since it is free-form text that
// may contain the delimiter. Decode returns typed requests; the positional
// grammar never leaks past this package.
package token

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fragboard/internal/view"
)

// Marker is the first field of every panel token. Component interactions
// whose custom ID does not begin with it belong to someone else and are left
// alone.
const Marker = "ui"

const sep = ":"

// menuField occupies the direction slot in a select menu's custom ID.
const menuField = "sel"

// ErrInvalid is returned for tokens that fail to decode: wrong marker,
// unknown view, unknown direction, or an arity outside the grammar. Callers
// ignore the interaction rather than surfacing an error to the channel.
var ErrInvalid = errors.New("invalid panel token")

type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// Request is one decoded interaction intent.
type Request interface {
	isRequest()
}

// TabSwitch is a click on a toolbar tab button. The page always restarts at
// zero.
type TabSwitch struct {
	View view.View
}

// PageTurn is a pager click. Page is the page to render, already advanced in
// the clicked direction and clamped at zero. Param and ParentPage carry the
// drill-down context and are zero-valued for top-level views.
type PageTurn struct {
	View       view.View
	Page       int
	Param      string
	ParentPage int
}

// MenuPick is a select-menu interaction. Page is the page the menu itself
// was rendered from; it becomes the drill-down's parent page. The chosen
// value is not part of the token: the chat runtime delivers it alongside.
type MenuPick struct {
	View view.View
	Page int
}

func (TabSwitch) isRequest() {}
func (PageTurn) isRequest()  {}
func (MenuPick) isRequest()  {}

// Tab encodes a tab-switch token.
func Tab(v view.View) string {
	return Marker + sep + v.Name()
}

// Pager encodes a pager token for a top-level view at the given current
// page.
func Pager(v view.View, d Direction, page int) string {
	return strings.Join([]string{Marker, v.Name(), string(d), strconv.Itoa(page)}, sep)
}

// PagerContext encodes a pager token for a drill-down view, carrying the
// parent filter label and the parent list's page so back-navigation can
// restore the exact page the user drilled down from.
func PagerContext(v view.View, d Direction, page int, label string, parentPage int) string {
	return strings.Join([]string{
		Marker, v.Name(), string(d), strconv.Itoa(page),
		url.QueryEscape(label), strconv.Itoa(parentPage),
	}, sep)
}

// Menu encodes a select menu's custom ID for the given view and the page its
// options were drawn from.
func Menu(v view.View, page int) string {
	return strings.Join([]string{Marker, v.Name(), menuField, strconv.Itoa(page)}, sep)
}

// Matches reports whether a custom ID belongs to the panel protocol.
func Matches(customID string) bool {
	return strings.HasPrefix(customID, Marker+sep)
}

// Decode parses a token into a typed request. The field count alone selects
// the grammar; anything else is ErrInvalid.
func Decode(s string) (Request, error) {
	fields := strings.Split(s, sep)
	if fields[0] != Marker {
		return nil, fmt.Errorf("%w: marker mismatch in %q", ErrInvalid, s)
	}

	switch len(fields) {
	case 2:
		v, ok := view.Lookup(fields[1])
		if !ok {
			return nil, fmt.Errorf("%w: unknown view in %q", ErrInvalid, s)
		}
		return TabSwitch{View: v}, nil
	case 4:
		v, ok := view.Lookup(fields[1])
		if !ok {
			return nil, fmt.Errorf("%w: unknown view in %q", ErrInvalid, s)
		}
		page := number(fields[3])
		switch fields[2] {
		case menuField:
			return MenuPick{View: v, Page: page}, nil
		case string(Next):
			return PageTurn{View: v, Page: page + 1}, nil
		case string(Prev):
			return PageTurn{View: v, Page: clamp(page - 1)}, nil
		}
		return nil, fmt.Errorf("%w: unknown direction in %q", ErrInvalid, s)
	case 6:
		v, ok := view.Lookup(fields[1])
		if !ok {
			return nil, fmt.Errorf("%w: unknown view in %q", ErrInvalid, s)
		}
		label, err := url.QueryUnescape(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%w: bad label encoding in %q", ErrInvalid, s)
		}
		page := number(fields[3])
		turn := PageTurn{
			View:       v,
			Param:      label,
			ParentPage: number(fields[5]),
		}
		switch fields[2] {
		case string(Next):
			turn.Page = page + 1
		case string(Prev):
			turn.Page = clamp(page - 1)
		default:
			return nil, fmt.Errorf("%w: unknown direction in %q", ErrInvalid, s)
		}
		return turn, nil
	}
	return nil, fmt.Errorf("%w: %d fields in %q", ErrInvalid, len(fields), s)
}

// number parses a page field. Garbage falls back to zero rather than failing
// the token: downstream code must always receive a well-formed non-negative
// page.
func number(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clamp(page int) int {
	if page < 0 {
		return 0
	}
	return page
}
