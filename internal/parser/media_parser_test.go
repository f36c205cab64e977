package parser

import (
	"strings"
	"testing"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

const seriesPageHTML = `<html><head><meta charset="utf-8"></head><body>
<div class="b-post__title"><h1>Мандалорец</h1></div>
<div class="b-post__origtitle">The Mandalorian</div>
<div class="b-sidecover"><a href="#"><img src="//static.example/posters/34521.jpg"></a></div>
<div class="b-post__description_text"> Одинокий охотник за головами. </div>
<div class="b-userset__fav_holder" data-id="34521"></div>
<ul id="translators-list" class="b-translators__list">
  <li title="Дубляж" class="b-translator__item active" data-translator_id="56">Дубляж</li>
  <li title="Кубик в Кубе" class="b-translator__item" data-translator_id="98">Кубик в Кубе</li>
  <li class="b-translator__item" data-translator_id="238">Оригинал</li>
  <li class="b-translator__item" data-translator_id="abc">Broken</li>
</ul>
<ul id="simple-seasons-tabs" class="b-simple_seasons__list">
  <li class="b-simple_season__item active" data-tab_id="1"> Сезон 1 </li>
  <li class="b-simple_season__item" data-tab_id="2">Сезон 2</li>
</ul>
<div id="simple-episodes-tabs">
  <ul id="simple-episodes-list-1">
    <li class="b-simple_episode__item" data-id="34521" data-season_id="1" data-episode_id="1">Серия 1</li>
    <li class="b-simple_episode__item" data-id="34521" data-season_id="1" data-episode_id="2">Серия 2</li>
  </ul>
  <ul id="simple-episodes-list-2">
    <li class="b-simple_episode__item" data-id="34521" data-season_id="2" data-episode_id="1">Серия 1</li>
  </ul>
</div>
<a href="/series/fiction/34521-mandalorec-2019/56-dublyazh/1-season/1-episode.html">s1e1</a>
<a href="/series/fiction/34521-mandalorec-2019/98-kubik-v-kube/1-season.html">s1</a>
<a href="https://rezka.example/series/fiction/34521-mandalorec-2019/56-dublyazh/2-season.html">s2</a>
<a href="/series/fiction/34521-mandalorec-2019.html">self</a>
<script>$(function () { sof.tv.initCDNSeriesEvents(34521, 56, 1, 1, false, 'rezka.example', false, {"id":"cdnplayer","url":"","streams":"[720p]https:\/\/cdn.example\/a.mp4,[1080p]https:\/\/cdn.example\/b.mp4","subtitle":"[Русский]https:\/\/subs.example\/ru.vtt,[Українська]https:\/\/subs.example\/ua.vtt","subtitle_lns":{"off":"","Русский":"ru","Українська":"ua"},"subtitle_def":"ru"}); });</script>
</body></html>`

func TestScrapeMediaPage_Series(t *testing.T) {
	page := ScrapeMediaPage(seriesPageHTML)

	if page.MediaID != "34521" {
		t.Errorf("MediaID = %q, want 34521", page.MediaID)
	}
	if page.Title != "Мандалорец" || page.OriginalTitle != "The Mandalorian" {
		t.Errorf("titles = %q / %q", page.Title, page.OriginalTitle)
	}
	if page.PosterURL != "https://static.example/posters/34521.jpg" {
		t.Errorf("PosterURL = %q", page.PosterURL)
	}
	if page.Description != "Одинокий охотник за головами." {
		t.Errorf("Description = %q", page.Description)
	}

	wantTranslations := []models.Translation{
		{ID: "56", Title: "Дубляж", Slug: "56-dublyazh"},
		{ID: "98", Title: "Кубик в Кубе", Slug: "98-kubik-v-kube"},
		{ID: "238", Title: "Translation 238"},
	}
	if len(page.Translations) != len(wantTranslations) {
		t.Fatalf("Translations = %+v, want %d entries", page.Translations, len(wantTranslations))
	}
	for i, want := range wantTranslations {
		if page.Translations[i] != want {
			t.Errorf("Translations[%d] = %+v, want %+v", i, page.Translations[i], want)
		}
	}

	wantSeasons := []models.Season{{ID: "1", Title: "Сезон 1"}, {ID: "2", Title: "Сезон 2"}}
	if len(page.Seasons) != 2 || page.Seasons[0] != wantSeasons[0] || page.Seasons[1] != wantSeasons[1] {
		t.Errorf("Seasons = %+v, want %+v", page.Seasons, wantSeasons)
	}

	wantEpisodes := []models.Episode{
		{ID: "1", Title: "Серия 1", SeasonID: "1"},
		{ID: "2", Title: "Серия 2", SeasonID: "1"},
		{ID: "1", Title: "Серия 1", SeasonID: "2"},
	}
	if len(page.Episodes) != len(wantEpisodes) {
		t.Fatalf("Episodes = %+v", page.Episodes)
	}
	for i, want := range wantEpisodes {
		if page.Episodes[i] != want {
			t.Errorf("Episodes[%d] = %+v, want %+v", i, page.Episodes[i], want)
		}
	}

	if page.StreamPayload != "[720p]https://cdn.example/a.mp4,[1080p]https://cdn.example/b.mp4" {
		t.Errorf("StreamPayload = %q", page.StreamPayload)
	}
}

func TestScrapeMediaPage_NoMarkup(t *testing.T) {
	for _, html := range []string{"", "<html><body><p>nothing here</p></body></html>", "<<<>>>"} {
		page := ScrapeMediaPage(html)
		if page.MediaID != "" {
			t.Errorf("MediaID = %q, want empty", page.MediaID)
		}
		if page.Translations == nil || len(page.Translations) != 0 {
			t.Errorf("Translations = %#v, want empty non-nil slice", page.Translations)
		}
		if page.Seasons != nil || page.Episodes != nil {
			t.Errorf("Seasons/Episodes = %#v / %#v, want nil", page.Seasons, page.Episodes)
		}
		if page.StreamPayload != "" {
			t.Errorf("StreamPayload = %q, want empty", page.StreamPayload)
		}
	}
}

func TestScrapeMediaPage_SingleTranslationFallback(t *testing.T) {
	tests := []struct {
		name string
		html string
		want models.Translation
	}{
		{
			name: "initializer id and info row title",
			html: `<div data-id="646"></div>
<table class="b-post__info"><tr><td class="l"><h2>Жанр</h2>:</td><td>Комедия</td></tr>
<tr><td class="l"><h2>В переводе</h2>:</td><td>Дубляж</td></tr></table>
<script>sof.tv.initCDNMoviesEvents(646, 110, false, false, false, 'rezka.example', false, {"streams":""});</script>`,
			want: models.Translation{ID: "110", Title: "Дубляж"},
		},
		{
			name: "sole slug key and slug tail title",
			html: `<div data-id="7"></div>
<a href="/series/drama/7-show-2020/56-dublyazh/1-season.html">s1</a>
<a href="/series/drama/7-show-2020/56-dublyazh/2-season.html">s2</a>`,
			want: models.Translation{ID: "56", Title: "dublyazh", Slug: "56-dublyazh"},
		},
		{
			name: "initializer id with foreign sole slug",
			html: `<a href="/series/drama/7-show-2020/56-dublyazh/1-season.html">s1</a>
<script>sof.tv.initCDNSeriesEvents(7, 110, 1, 1, false);</script>`,
			want: models.Translation{ID: "110", Title: "Translation 110", Slug: "56-dublyazh"},
		},
		{
			name: "english info row",
			html: `<table class="b-post__info"><tr><td><h2>In translation</h2>: </td><td> Original </td></tr></table>
<script>sof.tv.initCDNMoviesEvents(1, 238, false);</script>`,
			want: models.Translation{ID: "238", Title: "Original"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := ScrapeMediaPage(tt.html)
			if len(page.Translations) != 1 {
				t.Fatalf("Translations = %+v, want one entry", page.Translations)
			}
			if page.Translations[0] != tt.want {
				t.Errorf("Translations[0] = %+v, want %+v", page.Translations[0], tt.want)
			}
		})
	}
}

func TestScrapeMediaPage_SelectorTranslationTakesSoleSlug(t *testing.T) {
	html := `<div data-id="7"></div>
<ul id="translators-list"><li title="Dub" data-translator_id="56">Dub</li></ul>
<a href="/series/drama/7-show-2020/110-dublyazh/1-season.html">s1</a>`

	page := ScrapeMediaPage(html)
	want := []models.Translation{{ID: "56", Title: "Dub", Slug: "110-dublyazh"}}
	if len(page.Translations) != 1 || page.Translations[0] != want[0] {
		t.Errorf("Translations = %+v, want %+v", page.Translations, want)
	}

	two := strings.Replace(html, `</ul>`, `<li title="Sub" data-translator_id="98">Sub</li></ul>`, 1)
	for _, tr := range ScrapeMediaPage(two).Translations {
		if tr.Slug != "" {
			t.Errorf("translation %s got slug %q, want none with several selector entries", tr.ID, tr.Slug)
		}
	}
}

func TestScrapeMediaPage_FallbackWithoutAnyID(t *testing.T) {
	html := `<a href="/series/a/1-x/56-dublyazh/1-season.html">a</a><a href="/series/a/1-x/98-kubik/1-season.html">b</a>`
	page := ScrapeMediaPage(html)
	if len(page.Translations) != 0 {
		t.Errorf("ambiguous slugs without initializer should give no translation, got %+v", page.Translations)
	}
}

func TestScrapeTranslatorSlugs(t *testing.T) {
	slugs := ScrapeTranslatorSlugs(seriesPageHTML)
	want := map[string]string{"56": "56-dublyazh", "98": "98-kubik-v-kube"}
	if len(slugs) != len(want) {
		t.Fatalf("slugs = %v, want %v", slugs, want)
	}
	for id, slug := range want {
		if slugs[id] != slug {
			t.Errorf("slugs[%s] = %q, want %q", id, slugs[id], slug)
		}
	}

	if got := ScrapeTranslatorSlugs(""); len(got) != 0 {
		t.Errorf("empty HTML gave %v", got)
	}
}

func TestExtractStreamPayload(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   string
		wantOK bool
	}{
		{"absent", `<script>var x = {"url":""};</script>`, "", false},
		{"empty html", "", "", false},
		{"empty value", `{"streams":""}`, "", true},
		{"escaped slashes", `{"streams":"[720p]https:\/\/cdn\/a.mp4"}`, "[720p]https://cdn/a.mp4", true},
		{"spacing around colon", `{"streams" :  "#hWzcyMHBd"}`, "#hWzcyMHBd", true},
		{"unicode escape", `{"streams":"a\u0026b"}`, "a&b", true},
		{"escaped quote inside", `{"streams":"a\"b","x":"y"}`, `a"b`, true},
		{"invalid escape falls back", `{"streams":"https:\/\/cdn\/a.mp4\q"}`, `https://cdn/a.mp4\q`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractStreamPayload(tt.html)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractStreamPayload() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractSubtitles(t *testing.T) {
	tracks := ExtractSubtitles(seriesPageHTML)
	want := []models.SubtitleTrack{
		{Title: "Русский", URL: "https://subs.example/ru.vtt", Language: "ru"},
		{Title: "Українська", URL: "https://subs.example/ua.vtt", Language: "uk"},
	}
	if len(tracks) != len(want) {
		t.Fatalf("tracks = %+v", tracks)
	}
	for i := range want {
		if tracks[i] != want[i] {
			t.Errorf("tracks[%d] = %+v, want %+v", i, tracks[i], want[i])
		}
	}

	if got := ExtractSubtitles(`{"subtitle":false,"subtitle_lns":false}`); got != nil {
		t.Errorf("expected no tracks, got %+v", got)
	}
}

func TestMediaPageParser_ParseHtml(t *testing.T) {
	page, err := NewMediaPageParser().ParseHtml(strings.NewReader(seriesPageHTML))
	if err != nil {
		t.Fatalf("ParseHtml: %v", err)
	}
	if page.MediaID != "34521" || len(page.Translations) != 3 {
		t.Errorf("unexpected page %+v", page)
	}
}
