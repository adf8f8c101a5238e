package browsertest

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

const page = `<html><body>
<div id="list">
  <div class="row"><span class="name">  One </span><button id="b1">go</button></div>
  <div class="row" style="display: none"><span class="name">Two</span><button id="b2">go</button></div>
</div>
<input id="field" value="">
<select id="pick"><option value="a" selected>A</option><option value="b">B</option></select>
<button id="off" disabled>off</button>
</body></html>`

func byID(id string) locator.Locator {
	return locator.Locator{By: locator.ByID, Selector: id}
}

func TestSession_QueryStrategies(t *testing.T) {
	s := New(page)

	tests := []struct {
		loc  locator.Locator
		want int
	}{
		{loc: byID("list"), want: 1},
		{loc: locator.Locator{By: locator.ByCSS, Selector: "div.row > button"}, want: 2},
		{loc: locator.Locator{By: locator.ByClassName, Selector: "name"}, want: 2},
		{loc: byID("missing"), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			els, err := s.Query(tt.loc)
			require.NoError(t, err)
			assert.Len(t, els, tt.want)
		})
	}

	_, err := s.Query(locator.Locator{By: locator.ByXPath, Selector: "//div"})
	assert.ErrorIs(t, err, browser.ErrUnsupportedStrategy)
	assert.Equal(t, 1, s.Queries["id=list"])
}

func TestSession_ElementGoesStaleWhenDocumentChanges(t *testing.T) {
	s := New(page)
	els, err := s.Query(byID("b1"))
	require.NoError(t, err)
	require.Len(t, els, 1)

	s.SetHTML(page)

	_, err = els[0].Text()
	assert.ErrorIs(t, err, browser.ErrStale)
	assert.ErrorIs(t, els[0].Click(), browser.ErrStale)
}

func TestSession_ElementGoesStaleWhenRemoved(t *testing.T) {
	s := New(page)
	els, err := s.Query(byID("b1"))
	require.NoError(t, err)

	s.Document().Find("#b1").Remove()

	_, err = els[0].IsDisplayed()
	assert.ErrorIs(t, err, browser.ErrStale)
}

func TestElement_Interactions(t *testing.T) {
	s := New(page)
	var clicked []string
	s.OnClick("#b1, #b2", func(el *goquery.Selection) error {
		clicked = append(clicked, el.AttrOr("id", ""))
		return nil
	})
	var changed string
	s.OnChange("#pick", func(_ *goquery.Selection, value string) error {
		changed = value
		return nil
	})

	rows, err := s.Query(locator.Locator{By: locator.ByClassName, Selector: "row"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	names, err := rows[0].Query(locator.Locator{By: locator.ByClassName, Selector: "name"})
	require.NoError(t, err)
	require.Len(t, names, 1)
	text, err := names[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "One", text)

	visible, err := rows[1].IsDisplayed()
	require.NoError(t, err)
	assert.False(t, visible)

	b1, _ := s.Query(byID("b1"))
	require.NoError(t, b1[0].Click())
	b2, _ := s.Query(byID("b2"))
	assert.Error(t, b2[0].Click(), "hidden elements cannot be clicked")
	off, _ := s.Query(byID("off"))
	assert.Error(t, off[0].Click())
	assert.Equal(t, []string{"b1"}, clicked)

	field, _ := s.Query(byID("field"))
	require.NoError(t, field[0].SendKeys("abc"))
	assert.Equal(t, "abc", s.Document().Find("#field").AttrOr("value", ""))
	require.NoError(t, field[0].SendKeys("def"))
	assert.Equal(t, "def", s.Document().Find("#field").AttrOr("value", ""))
	assert.Error(t, b1[0].SendKeys("x"))

	pick, _ := s.Query(byID("pick"))
	require.NoError(t, pick[0].SelectByValue("b"))
	assert.Equal(t, "b", changed)
	assert.Error(t, pick[0].SelectByValue("zzz"))
}

func TestSession_FailuresAndClose(t *testing.T) {
	s := New(page)
	injected := errors.New("boom")
	s.FailQuery(byID("list"), browser.ErrStale, injected)

	_, err := s.Query(byID("list"))
	assert.ErrorIs(t, err, browser.ErrStale)
	_, err = s.Query(byID("list"))
	assert.ErrorIs(t, err, injected)
	els, err := s.Query(byID("list"))
	require.NoError(t, err)
	assert.Len(t, els, 1)

	shot, err := s.Screenshot()
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(shot))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Screenshots)

	s.FailScreenshot(injected)
	_, err = s.Screenshot()
	assert.ErrorIs(t, err, injected)

	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Close(), ErrClosed)
	_, err = s.Query(byID("list"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = els[0].Text()
	assert.ErrorIs(t, err, ErrClosed)
}
