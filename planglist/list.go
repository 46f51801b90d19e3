// Package planglist maps local programming-language ids to the remote
// judge's program-type identifiers and records the comment syntax used
// to stamp a submission banner into the source.
package planglist

type ProgrammingLang struct {
	ID       string // local short id, e.g. "cpp17"
	FullName string
	// ProgramTypeID is the value the remote submission form expects in
	// its programTypeId field.
	ProgramTypeID string
	// CommentStart / CommentEnd describe the language's comment syntax
	// for the resubmission banner. CommentEnd is empty for line
	// comments. Both empty means no banner is stamped.
	CommentStart string
	CommentEnd   string
}

var langs = []ProgrammingLang{
	{ID: "c11", FullName: "GNU GCC C11", ProgramTypeID: "43", CommentStart: "//"},
	{ID: "cpp17", FullName: "GNU G++17", ProgramTypeID: "54", CommentStart: "//"},
	{ID: "cpp20", FullName: "GNU G++20 (64)", ProgramTypeID: "89", CommentStart: "//"},
	{ID: "java21", FullName: "Java 21", ProgramTypeID: "87", CommentStart: "//"},
	{ID: "python3", FullName: "Python 3", ProgramTypeID: "31", CommentStart: "#"},
	{ID: "pypy3", FullName: "PyPy 3-64", ProgramTypeID: "70", CommentStart: "#"},
	{ID: "go", FullName: "Go", ProgramTypeID: "32", CommentStart: "//"},
	{ID: "rust", FullName: "Rust 2021", ProgramTypeID: "75", CommentStart: "//"},
	{ID: "kotlin", FullName: "Kotlin 1.9", ProgramTypeID: "88", CommentStart: "//"},
	{ID: "csharp", FullName: "C# 10", ProgramTypeID: "79", CommentStart: "//"},
	{ID: "pascal", FullName: "Free Pascal", ProgramTypeID: "55", CommentStart: "{", CommentEnd: "}"},
	{ID: "ocaml", FullName: "OCaml 4", ProgramTypeID: "19", CommentStart: "(*", CommentEnd: "*)"},
}

func ListProgrammingLanguages() []ProgrammingLang {
	out := make([]ProgrammingLang, len(langs))
	copy(out, langs)
	return out
}

func GetProgrammingLanguageById(id string) (*ProgrammingLang, error) {
	for _, l := range langs {
		if l.ID == id {
			lang := l
			return &lang, nil
		}
	}
	return nil, ErrInvalidProgLang()
}
