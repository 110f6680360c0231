package chi

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/kailas-cloud/searchcompare/internal/version"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageProvider struct {
	Name  string
	Label string
}

type pageData struct {
	Service   string
	Version   string
	Providers []pageProvider
}

type pageRenderer struct {
	data pageData
}

func newPageRenderer(names []string, labels map[string]string) *pageRenderer {
	providers := make([]pageProvider, 0, len(names))
	for _, n := range names {
		label := labels[n]
		if label == "" {
			label = n
		}
		providers = append(providers, pageProvider{Name: n, Label: label})
	}
	return &pageRenderer{data: pageData{
		Service:   ServiceName,
		Version:   version.Version,
		Providers: providers,
	}}
}

func (p *pageRenderer) render(w io.Writer) error {
	return pageTemplate.Execute(w, p.data)
}
