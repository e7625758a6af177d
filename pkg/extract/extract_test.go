package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/url2md/pkg/extract"
	"github.com/shouni/url2md/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ======================================================================
// モック (Mock) の定義
// ======================================================================

// MockFetcher はテスト用の extract.Fetcher インターフェースの実装です。
type MockFetcher struct {
	htmlContent string
	fetchError  error
}

// FetchPage はモックされたHTMLを Page として返すか、エラーを返します。
func (m *MockFetcher) FetchPage(ctx context.Context, url string) (*httpclient.Page, error) {
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	return &httpclient.Page{URL: url, StatusCode: 200, Body: m.htmlContent}, nil
}

// ======================================================================
// テスト関数
// ======================================================================

func TestNewExtractor(t *testing.T) {
	t.Run("success_with_valid_fetcher", func(t *testing.T) {
		extractor, err := extract.NewExtractor(&MockFetcher{})
		assert.NoError(t, err)
		require.NotNil(t, extractor)
		assert.Equal(t, extract.ModeRegex, extractor.Mode())
	})

	t.Run("error_with_nil_fetcher", func(t *testing.T) {
		extractor, err := extract.NewExtractor(nil)
		assert.Error(t, err)
		assert.Nil(t, extractor)
		assert.Contains(t, err.Error(), "Fetcher cannot be nil")
	})

	t.Run("with_dom_mode", func(t *testing.T) {
		extractor, err := extract.NewExtractor(&MockFetcher{}, extract.WithMode(extract.ModeDOM))
		require.NoError(t, err)
		assert.Equal(t, extract.ModeDOM, extractor.Mode())
	})
}

func TestParseMode(t *testing.T) {
	for input, expected := range map[string]extract.Mode{"": extract.ModeRegex, "regex": extract.ModeRegex, "dom": extract.ModeDOM} {
		mode, err := extract.ParseMode(input)
		require.NoError(t, err)
		assert.Equal(t, expected, mode)
	}

	_, err := extract.ParseMode("xpath")
	assert.Error(t, err)
}

func TestFetchTitle(t *testing.T) {
	const pageURL = "http://example.com/page"

	testCases := []struct {
		name          string
		html          string
		fetchErr      error
		mode          extract.Mode
		expectedTitle string
		expectedFound bool
		expectedError bool
	}{
		{
			name:          "fetch_error",
			fetchErr:      errors.New("network timeout"),
			expectedError: true,
		},
		{
			name:          "simple_title",
			html:          `<html><head><title>Test Title</title></head><body></body></html>`,
			expectedTitle: "Test Title",
			expectedFound: true,
		},
		{
			// タイトルが無い場合はURLがそのまま使われる
			name:          "no_title_falls_back_to_url",
			html:          `<html><head></head><body><p>no title here</p></body></html>`,
			expectedTitle: pageURL,
			expectedFound: false,
		},
		{
			name:          "multiline_title_with_tab",
			html:          "<title>\n  Hello\tWorld  </title>",
			expectedTitle: "Hello World",
			expectedFound: true,
		},
		{
			name:          "uppercase_tags_with_inner_whitespace",
			html:          "<TITLE >Upper Case</TiTlE\n>",
			expectedTitle: "Upper Case",
			expectedFound: true,
		},
		{
			name:          "entities_are_decoded",
			html:          "<title>Tom &amp; Jerry &#8211; &quot;Cartoons&quot;</title>",
			expectedTitle: `Tom & Jerry – "Cartoons"`,
			expectedFound: true,
		},
		{
			name:          "first_title_wins",
			html:          "<title>First</title><svg><title>Second</title></svg>",
			expectedTitle: "First",
			expectedFound: true,
		},
		{
			name:          "empty_title_is_found",
			html:          "<title></title>",
			expectedTitle: "",
			expectedFound: true,
		},
		{
			// regex モードは属性付きのタグを認識しない
			name:          "regex_ignores_attributes",
			html:          `<title lang="en">With Attr</title>`,
			expectedTitle: pageURL,
			expectedFound: false,
		},
		{
			name:          "dom_reads_attributes",
			html:          `<html><head><title lang="en">With  Attr</title></head></html>`,
			mode:          extract.ModeDOM,
			expectedTitle: "With Attr",
			expectedFound: true,
		},
		{
			// パーサーがデコードしたテキストは再デコードしない
			name:          "dom_does_not_double_decode",
			html:          `<title>a &amp;lt; b</title>`,
			mode:          extract.ModeDOM,
			expectedTitle: "a &lt; b",
			expectedFound: true,
		},
		{
			name:          "dom_no_title",
			html:          `<html><body>nothing</body></html>`,
			mode:          extract.ModeDOM,
			expectedTitle: pageURL,
			expectedFound: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &MockFetcher{
				htmlContent: tc.html,
				fetchError:  tc.fetchErr,
			}

			var opts []extract.Option
			if tc.mode != "" {
				opts = append(opts, extract.WithMode(tc.mode))
			}
			extractor, err := extract.NewExtractor(fetcher, opts...)
			require.NoError(t, err)

			title, found, err := extractor.FetchTitle(context.Background(), pageURL)
			if tc.expectedError {
				assert.Error(t, err)
				assert.Equal(t, tc.fetchErr, err, "Fetcherのエラーはそのまま返される")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedFound, found)
			assert.Equal(t, tc.expectedTitle, title)
		})
	}
}
