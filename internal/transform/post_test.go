package transform

import (
	"strings"
	"testing"

	"github.com/alnah/go-md2book/internal/config"
)

func frenchSettings() config.Settings {
	s := config.DefaultSettings()
	s.Fig = "figure "
	s.Tab = "tableau "
	s.PreChap = "chapitre "
	s.PostChap = ""
	s.DQL = "«~"
	s.DQR = "~»"
	return s
}

func TestPost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings config.Settings
		input    string
		want     string
	}{
		{
			name:  "section levels shift up",
			input: `\section{Intro}` + "\n" + `\subsection{Why}` + "\n" + `\subsubsection{How}`,
			want:  `\chap{Intro}` + "\n" + `\section{Why}` + "\n" + `\subsection{How}`,
		},
		{
			name:  "subsubsection marker",
			input: "SUBSUBSECTION: Foo",
			want:  "\\subsubsection{Foo}\n" + ShiftedMark + "\n",
		},
		{
			name:  "no level-1 heading marks the text",
			input: `\subsection{Why}` + "\n" + `\subsubsection{How}`,
			want:  `\section{Why}` + "\n" + `\subsection{How}` + "\n" + ShiftedMark + "\n",
		},
		{
			name:  "marked text keeps its levels",
			input: `\section{Why}` + "\n" + ShiftedMark + "\n",
			want:  `\section{Why}` + "\n" + ShiftedMark + "\n",
		},
		{
			name:  "caret in inline verbatim stays out of math",
			input: `\verb!2^80! and \verb!1 x 10^6!`,
			want:  `\texttt{2\textasciicircum{}80} and \texttt{1 x 10\textasciicircum{}6}`,
		},
		{
			name:  "paragraph marker",
			input: "PARAGRAPH: Bar baz",
			want:  `\paragraph{Bar baz}`,
		},
		{
			name:  "figure and table references",
			input: "see Figure 1--2 and Table 3--14.",
			want:  `see \imgref{1.2} and \tabref{3.14}.`,
		},
		{
			name:  "reference label spans a line break",
			input: "see Figure\n1--2",
			want:  `see \imgref{1.2}`,
		},
		{
			name:  "chapter reference",
			input: "read Chapter 3 first",
			want:  `read \chapref{3} first`,
		},
		{
			name:     "localized references",
			settings: frenchSettings(),
			input:    "voir la figure 2--1 et le chapitre 4.",
			want:     `voir la \imgref{2.1} et le \chapref{4}.`,
		},
		{
			name:  "figure marker",
			input: "FIG: Local version control.",
			want:  `\img{Local version control.}`,
		},
		{
			name:  "enumerate option dropped",
			input: `\begin{enumerate}[1.]`,
			want:  `\begin{enumerate}`,
		},
		{
			name:  "word dashes",
			input: "pages 10--20, a--b--c and git --version",
			want:  "pages 10-20, a-b-c and git --version",
		},
		{
			name:  "default quotes",
			input: "``quoted''",
			want:  "``quoted''",
		},
		{
			name:     "localized quotes",
			settings: frenchSettings(),
			input:    "il dit ``bonjour'' et ``au revoir''",
			want:     "il dit «~bonjour~» et «~au revoir~»",
		},
		{
			name:  "book math fixes",
			input: `a \verb!p = (n(n-1)/2) * (1/2^160))! and 2\^{}80 keys`,
			want:  `a $p = \frac{n(n-1)}{2} \times \frac{1}{2^{160}}$) and $2^{80}$ keys`,
		},
		{
			name:  "power of ten",
			input: `about 1.5 x 10\^{}6 objects`,
			want:  `about 1.5\e{6} objects`,
		},
		{
			name:  "inline verbatim",
			input: `run \verb!git add! now`,
			want:  `run \texttt{git add} now`,
		},
		{
			name:  "ctable style",
			input: `\ctable[pos = H, center, botcap]{ll}{}{}`,
			want:  `\ctable[pos = ht!, caption = ~ ,width = 130mm, center, botcap]{lX}{}{}`,
		},
		{
			name:  "longtable style",
			input: `\begin{longtable}[c]{@{}ll@{}}`,
			want:  `\begin{longtable}[c]{@{}lp{10cm}@{}}` + "\n" + `\caption{~}\\`,
		},
		{
			name:  "verbatim block shaded",
			input: "\\begin{verbatim}\n$ git init\n\\end{verbatim}",
			want:  "\\begin{shaded}\\begin{verbatim}\n$ git init\n\\end{verbatim}\\end{shaded}",
		},
		{
			name:  "shaded block untouched",
			input: "\\begin{shaded}\\begin{verbatim}\nx\n\\end{verbatim}\\end{shaded}",
			want:  "\\begin{shaded}\\begin{verbatim}\nx\n\\end{verbatim}\\end{shaded}",
		},
		{
			name:  "two verbatim blocks",
			input: "\\begin{verbatim}\na\n\\end{verbatim}\ntext\n\\begin{verbatim}\nb\n\\end{verbatim}",
			want: "\\begin{shaded}\\begin{verbatim}\na\n\\end{verbatim}\\end{shaded}\ntext\n" +
				"\\begin{shaded}\\begin{verbatim}\nb\n\\end{verbatim}\\end{shaded}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := tt.settings
			if s.SourceLanguage == "" {
				s = config.DefaultSettings()
			}
			if got := Post(s).Apply(tt.input); got != tt.want {
				t.Errorf("Apply(%q)\n got %q\nwant %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPost_EmptyLabelsSkipReferences(t *testing.T) {
	t.Parallel()

	s := config.DefaultSettings()
	s.Fig, s.Tab, s.PreChap, s.PostChap = "", "", "", ""

	input := "12--3 and 4 done"
	if got := Post(s).Apply(input); got != "12-3 and 4 done" {
		t.Errorf("Apply() = %q", got)
	}
	for _, name := range Post(s).Names() {
		if name == "cross-references" {
			t.Error("cross-references rule present with empty labels")
		}
	}
}

func TestPost_Idempotent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name: "full chapter",
			input: strings.Join([]string{
				`\section{Getting Started}`,
				`\subsection{About Version Control}`,
				`SUBSUBSECTION: Local Version Control Systems`,
				`PARAGRAPH: Details`,
				`See Figure 1--1 and Chapter 2 for pages 10--20 or 1--2--3.`,
				`FIG: Local version control.`,
				"``Quoted'' text with \\verb!git add! and \\verb|a_b|.",
				`\begin{enumerate}[1.]`,
				`\item one`,
				`\end{enumerate}`,
				`\begin{verbatim}`,
				`$ git init`,
				`\end{verbatim}`,
				`\begin{longtable}[c]{@{}ll@{}}`,
				`\end{longtable}`,
				`1.5 x 10\^{}6 and 2\^{}80`,
			}, "\n"),
		},
		{
			name:  "markers only",
			input: "SUBSUBSECTION: Foo\nPARAGRAPH: Bar",
		},
		{
			name:  "marker before a subsection",
			input: "SUBSUBSECTION: Foo\n\\subsection{Bar}",
		},
		{
			name:  "subsection as top heading",
			input: "\\subsection{About}\n\\subsubsection{Local}\ntext",
		},
		{
			name:  "carets in inline verbatim",
			input: `run \verb!2^80! and \verb!1 x 10^6! then 2\^{}80 and 3 x 10\^{}4`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, s := range []config.Settings{config.DefaultSettings(), frenchSettings()} {
				p := Post(s)
				once := p.Apply(tt.input)
				if twice := p.Apply(once); twice != once {
					t.Errorf("second pass changed text\nonce  %q\ntwice %q", once, twice)
				}
			}
		})
	}
}

func TestPreThenPost_Markers(t *testing.T) {
	t.Parallel()

	s := config.DefaultSettings()
	pre := mustPre(t, s)
	post := Post(s)

	tests := []struct {
		input string
		want  string
	}{
		{input: "#### Foo ####", want: "\\subsubsection{Foo}\n" + ShiftedMark + "\n"},
		{input: "##### Bar #####", want: `\paragraph{Bar}`},
		{input: "Insert 18333fig0101-tn.png\nFigure 1-1. Caption text", want: `\img{Caption text}`},
	}

	for _, tt := range tests {
		// The converter passes plain-text lines through unchanged.
		if got := post.Apply(pre.Apply(tt.input)); got != tt.want {
			t.Errorf("post(pre(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
