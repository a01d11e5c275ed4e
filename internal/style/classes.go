package style

// Tailwind utility classes attached to individual elements when explicit
// styling is enabled.
const (
	Content = "mdrender-content prose prose-gray max-w-none dark:prose-invert"

	H1 = "text-3xl font-bold text-gray-900 dark:text-gray-100 mt-6 mb-4 first:mt-0"
	H2 = "text-2xl font-semibold text-gray-900 dark:text-gray-100 mt-5 mb-3"
	H3 = "text-xl font-semibold text-gray-900 dark:text-gray-100 mt-4 mb-2"
	H4 = "text-lg font-medium text-gray-900 dark:text-gray-100 mt-3 mb-2"
	H5 = "text-base font-medium text-gray-900 dark:text-gray-100 mt-3 mb-2"
	H6 = "text-sm font-medium text-gray-600 dark:text-gray-400 mt-3 mb-2"

	Paragraph  = "mb-4 leading-relaxed text-gray-700 dark:text-gray-300"
	Blockquote = "border-l-4 border-blue-500 pl-4 py-2 my-4 bg-blue-50 dark:bg-blue-950/30 text-gray-700 dark:text-gray-300 italic"

	InlineCode    = "bg-gray-100 dark:bg-gray-800 text-gray-800 dark:text-gray-200 px-1.5 py-0.5 rounded text-sm font-mono"
	CodeBlock     = "bg-gray-50 dark:bg-gray-900 border border-gray-200 dark:border-gray-700 rounded-lg p-4 my-4 overflow-x-auto"
	CodeBlockCode = "font-mono text-sm leading-relaxed text-gray-800 dark:text-gray-200"

	UL = "list-disc list-inside mb-4 space-y-1 text-gray-700 dark:text-gray-300"
	OL = "list-decimal list-inside mb-4 space-y-1 text-gray-700 dark:text-gray-300"
	LI = "leading-relaxed"

	Link  = "text-blue-600 dark:text-blue-400 hover:text-blue-800 dark:hover:text-blue-300 underline underline-offset-2 hover:underline-offset-4 transition-all"
	Image = "max-w-full h-auto rounded-lg shadow-sm my-4"

	Table = "min-w-full divide-y divide-gray-200 dark:divide-gray-700 my-4 border border-gray-200 dark:border-gray-700 rounded-lg overflow-hidden"
	THead = "bg-gray-50 dark:bg-gray-800"
	TR    = "bg-white dark:bg-gray-900 even:bg-gray-50 dark:even:bg-gray-800/50"
	TD    = "px-6 py-4 text-sm text-gray-900 dark:text-gray-100"
	TH    = "px-6 py-3 text-left text-xs font-medium text-gray-500 dark:text-gray-400 uppercase tracking-wider"

	HR       = "border-0 h-px bg-gradient-to-r from-transparent via-gray-300 dark:via-gray-600 to-transparent my-8"
	Checkbox = "mr-2 accent-blue-600"

	MathInline  = "font-serif italic text-gray-800 dark:text-gray-200"
	MathDisplay = "font-serif italic text-center my-4 p-3 bg-gray-50 dark:bg-gray-800 rounded-lg text-gray-800 dark:text-gray-200"

	DL = "my-4"
	DT = "font-semibold text-gray-900 dark:text-gray-100 mt-4 first:mt-0"
	DD = "ml-6 mb-2 text-gray-700 dark:text-gray-300"

	Sup = "text-xs align-super"
	Sub = "text-xs align-sub"

	Em     = "italic"
	Strong = "font-bold"
	Del    = "line-through text-gray-500 dark:text-gray-400"

	FootnoteRef  = "text-xs align-super text-blue-600 dark:text-blue-400 hover:text-blue-800 dark:hover:text-blue-300"
	FootnoteDef  = "text-sm border-t border-gray-200 dark:border-gray-700 mt-8 pt-4 text-gray-600 dark:text-gray-400"
	RawHTMLBlock = "bg-yellow-50 dark:bg-yellow-950/30 border border-yellow-200 dark:border-yellow-800 rounded-lg p-3 my-4 font-mono text-sm text-yellow-800 dark:text-yellow-200 whitespace-pre-wrap"
	InlineHTML   = "bg-yellow-100 dark:bg-yellow-900/50 text-yellow-800 dark:text-yellow-200 px-2 py-1 rounded text-xs font-mono border border-yellow-300 dark:border-yellow-700"
)

// Code block theme bundles.
const (
	ThemeDefaultClasses = "bg-gray-50 dark:bg-gray-900"
	ThemeDarkClasses    = "bg-gray-900 text-gray-100"
	ThemeLightClasses   = "bg-white text-gray-900 border"
	ThemeGitHubClasses  = "bg-[#f6f8fa] dark:bg-[#0d1117] text-[#24292f] dark:text-[#f0f6fc]"
	ThemeMonokaiClasses = "bg-[#272822] text-[#f8f8f2]"
)

const proseClasses = Content + " prose-headings:font-bold prose-headings:text-gray-900 dark:prose-headings:text-gray-100 prose-p:text-gray-700 dark:prose-p:text-gray-300 prose-a:text-blue-600 dark:prose-a:text-blue-400 prose-strong:text-gray-900 dark:prose-strong:text-gray-100 prose-code:text-gray-800 dark:prose-code:text-gray-200 prose-pre:bg-gray-50 dark:prose-pre:bg-gray-900"

const errorBoxClasses = "bg-red-50 dark:bg-red-950/30 border border-red-200 dark:border-red-800 rounded-lg p-4 text-red-800 dark:text-red-200"
