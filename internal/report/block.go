package report

// BlockKind 文档结构块类型
type BlockKind int

const (
	KindTitle      BlockKind = iota // 红色大标题
	KindIssue                       // 期数
	KindColumns                     // 两列居中行（部门 | 日期）
	KindDivider                     // 分割线
	KindHeading                     // 一级标题（一、当周工作情况）
	KindSubheading                  // 加粗小标题（1.综合业务组 / 1)项目进展）
	KindParagraph                   // 正文，首行缩进
	KindItem                        // 列表行
	KindSpacer                      // 空白间距
)

var kindNames = map[BlockKind]string{
	KindTitle:      "title",
	KindIssue:      "issue",
	KindColumns:    "columns",
	KindDivider:    "divider",
	KindHeading:    "heading",
	KindSubheading: "subheading",
	KindParagraph:  "paragraph",
	KindItem:       "item",
	KindSpacer:     "spacer",
}

func (k BlockKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText 以名称序列化，便于 JSON 预览
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Block 一个结构块
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Cells []string  `json:"cells,omitempty"` // KindColumns
	Bold  bool      `json:"bold,omitempty"`  // KindItem
	Size  float64   `json:"size,omitempty"`  // KindSpacer 高度（pt）
}

// Document 组合后的周报
type Document struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Lines 文档纯文本（分割线、空白不输出）
func (d *Document) Lines() []string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		switch b.Kind {
		case KindDivider, KindSpacer:
			continue
		case KindColumns:
			lines = append(lines, b.Cells...)
		default:
			lines = append(lines, b.Text)
		}
	}
	return lines
}

func (d *Document) add(b Block) {
	d.Blocks = append(d.Blocks, b)
}

func (d *Document) item(text string, bold bool) {
	d.add(Block{Kind: KindItem, Text: text, Bold: bold})
}

func (d *Document) spacer(size float64) {
	d.add(Block{Kind: KindSpacer, Size: size})
}
