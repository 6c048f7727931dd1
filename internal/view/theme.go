package view

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qgrid/internal/config"
)

type Styles struct {
	Main      tcell.Style
	Header    tcell.Style
	Selection tcell.Style
	Primary   tcell.Style
	Fill      tcell.Style
	Footer    tcell.Style
	Error     tcell.Style
	Status    tcell.Style
}

func NewStyles(t config.Theme) Styles {
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	headerFg := parseColor(t.HeaderForeground, mainFg)
	headerBg := parseColor(t.HeaderBackground, mainBg)
	selectionFg := parseColor(t.SelectionForeground, mainFg)
	selectionBg := parseColor(t.SelectionBackground, tcell.ColorNavy)
	primaryFg := parseColor(t.PrimaryForeground, tcell.ColorBlack)
	primaryBg := parseColor(t.PrimaryBackground, tcell.ColorAqua)
	fillBg := parseColor(t.FillBackground, tcell.ColorGray)
	footerFg := parseColor(t.FooterForeground, tcell.ColorGray)
	errorFg := parseColor(t.ErrorForeground, tcell.ColorWhite)
	errorBg := parseColor(t.ErrorBackground, tcell.ColorRed)
	statusFg := parseColor(t.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(t.StatuslineBackground, tcell.ColorGray)
	return Styles{
		Main:      tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		Header:    tcell.StyleDefault.Foreground(headerFg).Background(headerBg).Bold(true),
		Selection: tcell.StyleDefault.Foreground(selectionFg).Background(selectionBg),
		Primary:   tcell.StyleDefault.Foreground(primaryFg).Background(primaryBg),
		Fill:      tcell.StyleDefault.Foreground(mainFg).Background(fillBg),
		Footer:    tcell.StyleDefault.Foreground(footerFg).Background(mainBg),
		Error:     tcell.StyleDefault.Foreground(errorFg).Background(errorBg),
		Status:    tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
