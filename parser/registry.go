package parser

import "fmt"

type Registry struct {
	parsers map[string]Parser
}

func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	// Register built-in parsers
	pdf := &PDFParser{}
	docx := &DOCXParser{}
	xlsx := &XLSXParser{}
	pptx := &PPTXParser{}
	text := &TextParser{}

	for _, p := range []Parser{pdf, docx, xlsx, pptx, text} {
		for _, f := range p.SupportedFormats() {
			r.parsers[f] = p
		}
	}
	return r
}

func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("no parser for format: %s", format)
	}
	return p, nil
}

func (r *Registry) Register(format string, p Parser) {
	r.parsers[format] = p
}
