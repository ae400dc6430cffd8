package export

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// Slide size of the classic 4:3 template, in EMU
const (
	slideWidth  = 9144000
	slideHeight = 6858000
)

const (
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"

	relType = nsRelationship + "/"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	pmlRoot   = `xmlns:a="` + nsDrawing + `" xmlns:r="` + nsRelationship + `" xmlns:p="` + nsPresentation + `"`
)

// Content types of the package parts
const (
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctPresentation  = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster   = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout   = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide         = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps     = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps     = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles   = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtendedProps = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Fixed relationship ids of ppt/presentation.xml; slides follow from firstSlideRel
const (
	relMaster = iota + 1
	relPresProps
	relViewProps
	relTheme
	relTableStyles
	firstSlideRel
)

// Ids reserved by the format for masters, layouts and slides
const (
	firstMasterID = 2147483648
	firstSlideID  = 256
)

// Application is written to the extended properties
const Application = "deckgen"

// PPTXEncoder writes a document as an Office Open XML presentation
type PPTXEncoder struct{}

// NewPPTXEncoder creates a new PPTX encoder
func NewPPTXEncoder() *PPTXEncoder {
	return &PPTXEncoder{}
}

// Format implements ports.DocumentEncoder
func (e *PPTXEncoder) Format() string { return entities.FormatPPTX }

// Extension implements ports.DocumentEncoder
func (e *PPTXEncoder) Extension() string { return ".pptx" }

type part struct {
	name string
	body string
}

// Encode writes the complete package to w
func (e *PPTXEncoder) Encode(ctx context.Context, doc *entities.Document, w io.Writer) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	layouts := doc.Layouts()
	slides := doc.Slides()
	lang := runLanguage(doc.Properties.Language)

	parts := []part{
		{"[Content_Types].xml", contentTypesXML(len(layouts), len(slides))},
		{"_rels/.rels", relationshipsXML([]relationship{
			{1, relType + "officeDocument", "ppt/presentation.xml"},
			{2, nsPackageRels + "/metadata/core-properties", "docProps/core.xml"},
			{3, relType + "extended-properties", "docProps/app.xml"},
		})},
		{"docProps/core.xml", corePropertiesXML(doc.Properties)},
		{"docProps/app.xml", appPropertiesXML(doc.Properties, len(slides))},
		{"ppt/presentation.xml", presentationXML(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(slides))},
		{"ppt/presProps.xml", xmlHeader + `<p:presentationPr ` + pmlRoot + `/>`},
		{"ppt/viewProps.xml", viewPropsXML},
		{"ppt/tableStyles.xml", tableStylesXML},
		{"ppt/theme/theme1.xml", themeXML},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML(len(layouts))},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML(len(layouts))},
	}

	for i, layout := range layouts {
		n := i + 1
		parts = append(parts,
			part{fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", n), slideLayoutXML(layout)},
			part{fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", n), relationshipsXML([]relationship{
				{1, relType + "slideMaster", "../slideMasters/slideMaster1.xml"},
			})},
		)
	}

	for _, slide := range slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", slide.Number), slideXML(slide, lang)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slide.Number), relationshipsXML([]relationship{
				{1, relType + "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", slide.LayoutIndex+1)},
			})},
		)
	}

	modified := doc.Properties.Created
	if modified.IsZero() {
		modified = time.Now()
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("creating part %s: %w", p.name, err)
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return fmt.Errorf("writing part %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing package: %w", err)
	}
	return nil
}

// runLanguage canonicalizes a BCP 47 tag for the lang attribute of text runs.
// Invalid tags are dropped.
func runLanguage(tag string) string {
	if tag == "" {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	return parsed.String()
}

// escape returns s with XML special characters escaped
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

type relationship struct {
	id     int
	typ    string
	target string
}

func relationshipsXML(rels []relationship) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsPackageRels + `">`)
	for _, rel := range rels {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, rel.id, rel.typ, escape(rel.target))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypesXML(layouts, slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="` + ctRelationships + `"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	override := func(name, contentType string) {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, name, contentType)
	}
	override("/ppt/presentation.xml", ctPresentation)
	override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	for i := 1; i <= layouts; i++ {
		override(fmt.Sprintf("/ppt/slideLayouts/slideLayout%d.xml", i), ctSlideLayout)
	}
	for i := 1; i <= slides; i++ {
		override(fmt.Sprintf("/ppt/slides/slide%d.xml", i), ctSlide)
	}
	override("/ppt/theme/theme1.xml", ctTheme)
	override("/ppt/presProps.xml", ctPresProps)
	override("/ppt/viewProps.xml", ctViewProps)
	override("/ppt/tableStyles.xml", ctTableStyles)
	override("/docProps/core.xml", ctCoreProps)
	override("/docProps/app.xml", ctExtendedProps)

	b.WriteString(`</Types>`)
	return b.String()
}

func corePropertiesXML(props entities.DocumentProperties) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties` +
		` xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:dcmitype="http://purl.org/dc/dcmitype/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)

	element := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, `<%s>%s</%s>`, name, escape(value), name)
		}
	}
	element("dc:title", props.Title)
	element("dc:creator", props.Creator)
	element("cp:lastModifiedBy", props.Creator)
	element("dc:identifier", props.Identifier)
	element("dc:language", runLanguage(props.Language))

	if !props.Created.IsZero() {
		stamp := props.Created.UTC().Format(time.RFC3339)
		fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp)
		fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp)
	}

	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func appPropertiesXML(props entities.DocumentProperties, slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"` +
		` xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	b.WriteString(`<Application>` + Application + `</Application>`)
	fmt.Fprintf(&b, `<Slides>%d</Slides>`, slides)
	if props.Company != "" {
		b.WriteString(`<Company>` + escape(props.Company) + `</Company>`)
	}
	b.WriteString(`</Properties>`)
	return b.String()
}

func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + pmlRoot + ` saveSubsetFonts="1">`)
	fmt.Fprintf(&b, `<p:sldMasterIdLst><p:sldMasterId id="%d" r:id="rId%d"/></p:sldMasterIdLst>`, firstMasterID, relMaster)
	if slides > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slides; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, firstSlideID+i, firstSlideRel+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d" type="screen4x3"/>`, slideWidth, slideHeight)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, slideHeight, slideWidth)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slides int) string {
	rels := []relationship{
		{relMaster, relType + "slideMaster", "slideMasters/slideMaster1.xml"},
		{relPresProps, relType + "presProps", "presProps.xml"},
		{relViewProps, relType + "viewProps", "viewProps.xml"},
		{relTheme, relType + "theme", "theme/theme1.xml"},
		{relTableStyles, relType + "tableStyles", "tableStyles.xml"},
	}
	for i := 0; i < slides; i++ {
		rels = append(rels, relationship{firstSlideRel + i, relType + "slide", fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	return relationshipsXML(rels)
}

func slideMasterRelsXML(layouts int) string {
	rels := make([]relationship, 0, layouts+1)
	for i := 1; i <= layouts; i++ {
		rels = append(rels, relationship{i, relType + "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i)})
	}
	rels = append(rels, relationship{layouts + 1, relType + "theme", "../theme/theme1.xml"})
	return relationshipsXML(rels)
}

func slideMasterXML(layouts int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldMaster ` + pmlRoot + `>`)
	b.WriteString(`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>`)
	b.WriteString(`<p:spTree>` + groupShapeXML)
	writeLayoutShape(&b, 2, entities.Placeholder{Type: entities.PlaceholderTitle, Name: "Title Placeholder 1"}, true)
	writeLayoutShape(&b, 3, entities.Placeholder{Type: entities.PlaceholderBody, Index: 1, Name: "Text Placeholder 2"}, true)
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2"` +
		` accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst>`)
	for i := 1; i <= layouts; i++ {
		fmt.Fprintf(&b, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, firstMasterID+i, i)
	}
	b.WriteString(`</p:sldLayoutIdLst>`)
	b.WriteString(masterTextStylesXML)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

// layoutTypes maps the default layout names to their OOXML layout type
var layoutTypes = map[string]string{
	"Title Slide":       "title",
	"Title and Content": "obj",
	"Section Header":    "secHead",
	"Title Only":        "titleOnly",
	"Blank":             "blank",
}

func slideLayoutXML(layout *entities.Layout) string {
	typ, ok := layoutTypes[layout.Name]
	if !ok {
		typ = "cust"
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sldLayout %s type="%s" preserve="1">`, pmlRoot, typ)
	fmt.Fprintf(&b, `<p:cSld name="%s"><p:spTree>%s`, escape(layout.Name), groupShapeXML)
	for i, ph := range layout.Placeholders {
		ownGeometry := ph.Type == entities.PlaceholderCenterTitle || ph.Type == entities.PlaceholderSubtitle
		writeLayoutShape(&b, i+2, ph, ownGeometry)
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sldLayout>`)
	return b.String()
}

func slideXML(slide *entities.Slide, lang string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + pmlRoot + `>`)
	b.WriteString(`<p:cSld><p:spTree>` + groupShapeXML)
	for _, shape := range slide.Shapes {
		writeShapeHeader(&b, shape.ID, shape.Placeholder)
		b.WriteString(`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>`)
		writeParagraphs(&b, shape.TextFrame, lang)
		b.WriteString(`</p:txBody></p:sp>`)
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

const groupShapeXML = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func writeShapeHeader(b *strings.Builder, id int, ph entities.Placeholder) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, id, escape(ph.Name))
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>`)
	if ph.Index == 0 {
		fmt.Fprintf(b, `<p:ph type="%s"/>`, ph.Type)
	} else {
		fmt.Fprintf(b, `<p:ph type="%s" idx="%d"/>`, ph.Type, ph.Index)
	}
	b.WriteString(`</p:nvPr></p:nvSpPr>`)
}

// geometry is the position of a placeholder, in EMU
type geometry struct {
	x, y, cx, cy int
}

var placeholderGeometry = map[entities.PlaceholderType]geometry{
	entities.PlaceholderTitle:       {457200, 274638, 8229600, 1143000},
	entities.PlaceholderBody:        {457200, 1600200, 8229600, 4525963},
	entities.PlaceholderCenterTitle: {685800, 2130425, 7772400, 1470025},
	entities.PlaceholderSubtitle:    {1371600, 3886200, 6400800, 1752600},
}

// writeLayoutShape writes a placeholder of a master or layout. Without a position
// the placeholder inherits it from the master placeholder of the same type.
func writeLayoutShape(b *strings.Builder, id int, ph entities.Placeholder, positioned bool) {
	writeShapeHeader(b, id, ph)
	if g, ok := placeholderGeometry[ph.Type]; ok && positioned {
		fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, g.x, g.y, g.cx, g.cy)
		b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)
	} else {
		b.WriteString(`<p:spPr/>`)
	}
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>`)
}

// writeParagraphs writes one a:p per paragraph with its indent level. A frame with
// no paragraphs still needs one empty a:p.
func writeParagraphs(b *strings.Builder, frame *entities.TextFrame, lang string) {
	runProps := `<a:rPr dirty="0"/>`
	endProps := `<a:endParaRPr dirty="0"/>`
	if lang != "" {
		runProps = fmt.Sprintf(`<a:rPr lang="%s" dirty="0"/>`, lang)
		endProps = fmt.Sprintf(`<a:endParaRPr lang="%s" dirty="0"/>`, lang)
	}

	if frame == nil || len(frame.Paragraphs) == 0 {
		b.WriteString(`<a:p>` + endProps + `</a:p>`)
		return
	}

	for _, p := range frame.Paragraphs {
		fmt.Fprintf(b, `<a:p><a:pPr lvl="%d"/>`, p.Level)
		for i, line := range strings.Split(p.Text, "\n") {
			if i > 0 {
				b.WriteString(`<a:br>` + runProps + `</a:br>`)
			}
			if line == "" {
				continue
			}
			b.WriteString(`<a:r>` + runProps + `<a:t>` + escape(line) + `</a:t></a:r>`)
		}
		b.WriteString(endProps + `</a:p>`)
	}
}
