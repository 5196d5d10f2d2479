package project

// Multipart field names carrying files.
const (
	FileFieldLogo    = "logo"
	FileFieldOficio  = "oficio"
	FileFieldImagens = "imagens"
)

// Per-request upload limits.
const (
	MaxLogoFiles   = 1
	MaxOficioFiles = 1
	MaxImageFiles  = 5
)

// FileFieldLimit returns how many files a field accepts, 0 for unknown fields.
func FileFieldLimit(field string) int {
	switch field {
	case FileFieldLogo:
		return MaxLogoFiles
	case FileFieldOficio:
		return MaxOficioFiles
	case FileFieldImagens:
		return MaxImageFiles
	}
	return 0
}

// ReferencedFiles lists every file key the live record points at.
func (p *Project) ReferencedFiles() []string {
	var keys []string
	if p.LogoURL != nil {
		keys = append(keys, *p.LogoURL)
	}
	if p.OficioURL != nil {
		keys = append(keys, *p.OficioURL)
	}
	return append(keys, p.ImageURLs()...)
}
