package render

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// newMarkdownConverter returns a goroutine-safe converter. Status pages are
// mostly key/value tables, so the table plugin keeps them as tables.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// toMarkdown resolves relative links and images against baseURL.
func toMarkdown(conv *converter.Converter, htmlContent, baseURL string) (string, error) {
	return conv.ConvertString(htmlContent, converter.WithDomain(baseURL))
}
