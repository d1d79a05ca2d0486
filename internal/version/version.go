package version

import "fmt"

// Заполняются линкером при сборке (-ldflags "-X ...").
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// Info описывает метаданные сборки в структурированном виде.
type Info struct {
	Date   string `json:"date"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
}

// Get возвращает метаданные текущей сборки.
func Get() Info {
	return Info{
		Date:   orDev(BuildDate),
		Commit: orDev(BuildCommit),
		Branch: orDev(BuildBranch),
	}
}

// String возвращает однострочное описание сборки для логов.
func String() string {
	i := Get()
	return fmt.Sprintf("build %s (%s@%s)", i.Date, i.Commit, i.Branch)
}

func orDev(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}
