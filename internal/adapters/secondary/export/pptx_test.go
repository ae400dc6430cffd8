package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/test/builders"
)

type xmlRun struct {
	Props struct {
		Lang string `xml:"lang,attr"`
	} `xml:"rPr"`
	Text string `xml:"t"`
}

type xmlParagraph struct {
	Props *struct {
		Level int `xml:"lvl,attr"`
	} `xml:"pPr"`
	Runs []xmlRun `xml:"r"`
}

func (p xmlParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

type xmlShape struct {
	NonVisual struct {
		Props struct {
			ID   int    `xml:"id,attr"`
			Name string `xml:"name,attr"`
		} `xml:"cNvPr"`
		App struct {
			Placeholder struct {
				Type string `xml:"type,attr"`
				Idx  int    `xml:"idx,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	Paragraphs []xmlParagraph `xml:"txBody>p"`
}

type xmlSlide struct {
	Shapes []xmlShape `xml:"cSld>spTree>sp"`
}

func (s xmlSlide) shape(idx int) xmlShape {
	for _, sh := range s.Shapes {
		if sh.NonVisual.App.Placeholder.Idx == idx {
			return sh
		}
	}
	return xmlShape{}
}

func encodePackage(t *testing.T, doc *entities.Document) map[string][]byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, NewPPTXEncoder().Encode(context.Background(), doc, &buf))

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := make(map[string][]byte, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = data
	}

	require.Equal(t, "[Content_Types].xml", reader.File[0].Name)
	return files
}

func decodeSlide(t *testing.T, files map[string][]byte, name string) xmlSlide {
	t.Helper()

	data, ok := files[name]
	require.True(t, ok, "missing part %s", name)

	var slide xmlSlide
	require.NoError(t, xml.Unmarshal(data, &slide))
	return slide
}

func TestPPTXEncoder_Parts(t *testing.T) {
	files := encodePackage(t, buildDocument(t, builders.ReliabilityOutlineDeck()))

	for _, name := range []string{
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/theme/theme1.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideLayouts/slideLayout5.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide3.xml",
		"ppt/slides/_rels/slide2.xml.rels",
	} {
		assert.Contains(t, files, name)
	}
	assert.NotContains(t, files, "ppt/slides/slide4.xml")

	t.Run("every part is well formed", func(t *testing.T) {
		for name, data := range files {
			decoder := xml.NewDecoder(bytes.NewReader(data))
			for {
				_, err := decoder.Token()
				if err == io.EOF {
					break
				}
				require.NoError(t, err, "part %s", name)
			}
		}
	})

	t.Run("slides reference their layouts", func(t *testing.T) {
		assert.Contains(t, string(files["ppt/slides/_rels/slide1.xml.rels"]), "../slideLayouts/slideLayout1.xml")
		assert.Contains(t, string(files["ppt/slides/_rels/slide2.xml.rels"]), "../slideLayouts/slideLayout2.xml")
		assert.Contains(t, string(files["[Content_Types].xml"]), `PartName="/ppt/slides/slide3.xml"`)
		assert.Equal(t, 3, strings.Count(string(files["ppt/presentation.xml"]), "<p:sldId "))
	})
}

func TestPPTXEncoder_Slides(t *testing.T) {
	files := encodePackage(t, buildDocument(t, builders.ReliabilityOutlineDeck()))

	t.Run("title slide", func(t *testing.T) {
		slide := decodeSlide(t, files, "ppt/slides/slide1.xml")
		require.Len(t, slide.Shapes, 2)

		title := slide.shape(0)
		assert.Equal(t, "ctrTitle", title.NonVisual.App.Placeholder.Type)
		require.Len(t, title.Paragraphs, 1)
		assert.Equal(t, "Service Reliability", title.Paragraphs[0].text())

		subtitle := slide.shape(1)
		assert.Equal(t, "subTitle", subtitle.NonVisual.App.Placeholder.Type)
		require.Len(t, subtitle.Paragraphs, 1)
		assert.Equal(t, "Xây dựng và Đo lường Dịch vụ Đáng Tin cậy", subtitle.Paragraphs[0].text())
		assert.Equal(t, "vi-VN", subtitle.Paragraphs[0].Runs[0].Props.Lang)
	})

	t.Run("content slide", func(t *testing.T) {
		slide := decodeSlide(t, files, "ppt/slides/slide2.xml")

		assert.Equal(t, "Nội dung chính", slide.shape(0).Paragraphs[0].text())

		body := slide.shape(1)
		assert.Equal(t, "body", body.NonVisual.App.Placeholder.Type)
		require.Len(t, body.Paragraphs, 2)
		for i, want := range []string{"A", "B"} {
			require.NotNil(t, body.Paragraphs[i].Props)
			assert.Equal(t, 0, body.Paragraphs[i].Props.Level)
			assert.Equal(t, want, body.Paragraphs[i].text())
		}
	})

	t.Run("escaped title decodes back", func(t *testing.T) {
		slide := decodeSlide(t, files, "ppt/slides/slide3.xml")
		assert.Equal(t, "Q & A", slide.shape(0).Paragraphs[0].text())
		assert.Contains(t, string(files["ppt/slides/slide3.xml"]), "Q &amp; A")
	})
}

func TestPPTXEncoder_Levels(t *testing.T) {
	files := encodePackage(t, buildDocument(t, builders.NestedDeck()))
	body := decodeSlide(t, files, "ppt/slides/slide1.xml").shape(1)

	want := []entities.Paragraph{
		{Text: "Leaf 1", Level: 0},
		{Text: "Parent", Level: 1},
		{Text: "Child1", Level: 2},
		{Text: "Child2", Level: 2},
		{Text: "Leaf 2", Level: 0},
		{Text: "Second parent", Level: 1},
		{Text: "Only child", Level: 2},
	}

	got := make([]entities.Paragraph, 0, len(body.Paragraphs))
	for _, p := range body.Paragraphs {
		require.NotNil(t, p.Props)
		got = append(got, entities.Paragraph{Text: p.text(), Level: p.Props.Level})
	}
	assert.Equal(t, want, got)
}

func TestPPTXEncoder_Text(t *testing.T) {
	special := `<script> & "quotes" 'single' ©`
	deck := builders.NewDeckBuilder().
		WithContentSlide(special, entities.NewLeaf("line one\nline two")).
		WithContentSlide("Empty").
		Build()

	files := encodePackage(t, buildDocument(t, deck))

	t.Run("special characters round trip", func(t *testing.T) {
		slide := decodeSlide(t, files, "ppt/slides/slide1.xml")
		assert.Equal(t, special, slide.shape(0).Paragraphs[0].text())
	})

	t.Run("newline becomes a line break", func(t *testing.T) {
		slide := decodeSlide(t, files, "ppt/slides/slide1.xml")
		body := slide.shape(1)
		require.Len(t, body.Paragraphs, 1)
		require.Len(t, body.Paragraphs[0].Runs, 2)
		assert.Equal(t, "line one", body.Paragraphs[0].Runs[0].Text)
		assert.Equal(t, "line two", body.Paragraphs[0].Runs[1].Text)
		assert.Contains(t, string(files["ppt/slides/slide1.xml"]), "<a:br>")
	})

	t.Run("empty body keeps one bare paragraph", func(t *testing.T) {
		slide := decodeSlide(t, files, "ppt/slides/slide2.xml")
		body := slide.shape(1)
		require.Len(t, body.Paragraphs, 1)
		assert.Nil(t, body.Paragraphs[0].Props)
		assert.Empty(t, body.Paragraphs[0].Runs)
	})
}

func TestPPTXEncoder_Properties(t *testing.T) {
	doc := buildDocument(t, builders.MinimalDeck())
	doc.Properties = entities.DocumentProperties{
		Title:      "Service Reliability",
		Creator:    "SRE <team>",
		Company:    "Acme & Co",
		Language:   "vi-vn",
		Identifier: "0b6c9a52-3f0e-4c48-9d59-4fb7a3a9f2d1",
		Created:    time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC),
	}

	files := encodePackage(t, doc)
	core := string(files["docProps/core.xml"])
	app := string(files["docProps/app.xml"])

	assert.Contains(t, core, "<dc:title>Service Reliability</dc:title>")
	assert.Contains(t, core, "<dc:creator>SRE &lt;team&gt;</dc:creator>")
	assert.Contains(t, core, "<dc:identifier>0b6c9a52-3f0e-4c48-9d59-4fb7a3a9f2d1</dc:identifier>")
	assert.Contains(t, core, "<dc:language>vi-VN</dc:language>")
	assert.Contains(t, core, "2024-06-30T10:00:00Z")

	assert.Contains(t, app, "<Application>deckgen</Application>")
	assert.Contains(t, app, "<Slides>1</Slides>")
	assert.Contains(t, app, "<Company>Acme &amp; Co</Company>")
}

func TestPPTXEncoder_Errors(t *testing.T) {
	encoder := NewPPTXEncoder()
	assert.Equal(t, entities.FormatPPTX, encoder.Format())
	assert.Equal(t, ".pptx", encoder.Extension())

	assert.Error(t, encoder.Encode(context.Background(), nil, io.Discard))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := encoder.Encode(cancelled, buildDocument(t, builders.MinimalDeck()), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLanguage(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"vi-VN":   "vi-VN",
		"en-us":   "en-US",
		"!!":      "",
	}

	for input, want := range tests {
		assert.Equal(t, want, runLanguage(input), "input %q", input)
	}
}
