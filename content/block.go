package content

// Component names carried in Block.Component.
const (
	ComponentCodeBlock   = "shared.code-block"
	ComponentMedia       = "shared.media"
	ComponentQuote       = "shared.quote"
	ComponentRichText    = "shared.rich-text"
	ComponentSeo         = "shared.seo"
	ComponentSlider      = "shared.slider"
	ComponentAchievement = "about.achievement"
	ComponentEducation   = "about.education"
	ComponentExperience  = "about.experience"
)

// DefaultCodeLanguage is applied to code blocks stored without a language.
const DefaultCodeLanguage = "javascript"

// Block is one entry of an article's dynamic zone. The fields of every known
// component live side by side; Component says which of them are meaningful.
type Block struct {
	Component string `json:"__component"`
	ID        int64  `json:"id,omitempty"`

	// shared.code-block
	Code            string `json:"code,omitempty"`
	Language        string `json:"language,omitempty"`
	Filename        string `json:"filename,omitempty"`
	ShowLineNumbers *bool  `json:"showLineNumbers,omitempty"`

	// shared.quote, shared.rich-text, about.*
	Title       string `json:"title,omitempty"`
	Body        string `json:"body,omitempty"`
	Description string `json:"description,omitempty"`

	// shared.media, shared.slider
	File  *Media  `json:"file,omitempty"`
	Files []Media `json:"files,omitempty"`

	// shared.seo
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	ShareImage      *Media `json:"shareImage,omitempty"`

	// about.achievement, about.education, about.experience
	Date        string `json:"date,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

// IsCodeBlock reports whether b is a shared.code-block entry.
func (b Block) IsCodeBlock() bool {
	return b.Component == ComponentCodeBlock
}

// CodeLanguage returns the block language, falling back to DefaultCodeLanguage.
func (b Block) CodeLanguage() string {
	if b.Language == "" {
		return DefaultCodeLanguage
	}
	return b.Language
}

// LineNumbers reports whether line numbers are shown. Unset means true.
func (b Block) LineNumbers() bool {
	return b.ShowLineNumbers == nil || *b.ShowLineNumbers
}
