package safety

import (
	"regexp"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

// patternFamily groups the expressions for one attack family. Patterns run
// against normalised lowercase text, RE2 keeps them linear on hostile input.
type patternFamily struct {
	name     string
	reason   string
	patterns []*regexp.Regexp
}

// defaultFamilies are evaluated in order, the first family to match wins
var defaultFamilies = []patternFamily{
	{
		name:   constants.PatternFamilySystemOverride,
		reason: "attempt to override prior instructions",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(ignore|disregard|forget|override|bypass)\b[^.\n]{0,40}?\b(previous|prior|above|earlier|all|any|your|these|those|system)\b[^.\n]{0,20}?\b(instructions?|prompts?|rules|directives|guidelines|programming|context)\b`),
			regexp.MustCompile(`\b(do not|don't|stop) (follow|obey)(ing)? (your|the|any) (instructions|rules|guidelines)\b`),
		},
	},
	{
		name:   constants.PatternFamilyRoleSwitch,
		reason: "attempt to switch the assistant persona",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(you are now|you're now|from now on,? you are|from now on,? you're|pretend (to be|you are|you're)|act as|roleplay as|role-play as|behave like)\s+(an?\s+|my\s+|the\s+)?(\w+\s+){0,3}?(ai|assistant|bot|model|chatbot|character|persona|hacker|villain|unrestricted|unfiltered|uncensored|evil|jailbroken|admin|administrator|root|developer)\b`),
			regexp.MustCompile(`\b(respond|answer|reply|talk|speak|operate|act|behave)\b[^.\n]{0,20}?\b(without|with no|free of)\s+(any\s+)?(restrictions|filters|guidelines|censorship|safety)\b`),
		},
	},
	{
		name:   constants.PatternFamilyNewInstructions,
		reason: "injected replacement instructions",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(new|updated|revised|real|actual|secret|hidden)\s+(instructions?|rules|directives|system prompt)\s*[:\-]`),
			regexp.MustCompile(`\byour (new|real|true|actual) (instructions?|task|purpose|goal|objective) (is|are)\b`),
			regexp.MustCompile(`\bfrom now on,?\s+(you (will|must|shall|should)|always|never|only) (respond|answer|reply|obey|ignore|say)\b`),
		},
	},
	{
		name:   constants.PatternFamilyCodeExecution,
		reason: "code execution attempt",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(exec|eval|popen|subprocess\.\w+|os\.system|__import__|child_process|shell_exec|passthru|system)\s*\(`),
			regexp.MustCompile(`\b(rm\s+-rf\s+/|sudo\s+\w+|chmod\s+[0-7]{3,4}\s|curl\s+\S+\s*\|\s*(ba|z)?sh|wget\s+https?://)`),
			regexp.MustCompile(`\b(run|execute|eval(uate)?)\s+(this|the following|my)\s+(code|script|command|payload|shell)\b`),
			regexp.MustCompile(`<script\b|;\s*drop\s+table\b|\bunion\s+(all\s+)?select\b`),
		},
	},
	{
		name:   constants.PatternFamilyDataExfiltration,
		reason: "attempt to extract protected data",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(reveal|show|print|display|repeat|output|leak|tell me|give me|what (is|are|was|were))\b[^.\n]{0,30}?\b(your|the)\s+(system\s+prompt|initial\s+(prompt|instructions)|hidden\s+(prompt|instructions)|original\s+instructions|instructions you were given|api\s+keys?|environment\s+variables|database\s+schema)\b`),
			regexp.MustCompile(`\b(reveal|show|print|display|leak|tell me|give me)\b[^.\n]{0,20}?\byour\s+(secrets?|credentials|passwords?|tokens?)\b`),
			regexp.MustCompile(`\b(dump|export|exfiltrate)\s+(all\s+)?(the\s+)?(users?|user data|database|tables|emails|passwords|credentials|api keys|tokens)\b`),
			regexp.MustCompile(`\b(send|post|forward|upload|transmit)\b[^.\n]{0,40}?\bto\s+(https?://|ftp://|\S+@\S+\.\w+)`),
		},
	},
	{
		name:   constants.PatternFamilyJailbreakAlias,
		reason: "known jailbreak alias",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(do anything now|dan mode|act as dan|(you are|you're) dan|developer mode|dev mode enabled|jailbreak(ed|ing)?|jailbroken|god mode|aim mode|evil confidant|opposite mode|unfiltered mode|no restrictions mode)\b`),
		},
	},
	{
		name:   constants.PatternFamilyDelimiterConfusion,
		reason: "delimiter or role token injection",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`<\|?/?(system|im_start|im_end|endoftext|assistant)\|?>`),
			regexp.MustCompile(`\[/?(inst|sys|system)\]|<</?sys>>`),
			regexp.MustCompile(`(^|\n)\s*(#{3,}|-{3,}|={3,})\s*(system|instructions?|new instructions|admin)\b`),
			regexp.MustCompile("(\"\"\"|```)\\s*(system|end of prompt)\\b|\\bend of (system )?(prompt|instructions)\\b|(^|\\n)\\s*system\\s*:\\s*you\\b"),
		},
	},
}

// defaultAllowList holds benign travel phrasing that would otherwise trip a
// family, e.g. a user changing their mind about a booking
var defaultAllowList = []*regexp.Regexp{
	regexp.MustCompile(`\b(ignore|disregard|forget)\s+(my|our)\s+(previous|last|earlier|prior)\s+(instructions?|requests?|messages?)\s+(about|for|regarding|on)\s+(the\s+|my\s+|our\s+)?(hotel|flight|booking|reservation|trip|itinerary|route|campsite|budget|expense|dinner|restaurant|car|rental)s?\b`),
	regexp.MustCompile(`\b(ignore|disregard|forget)\s+(my|our|the)\s+(previous|last|earlier|prior|old)\s+(booking|reservation|itinerary|trip|route|plan|search|expense)s?\b`),
	regexp.MustCompile(`\b(act as|be|you are now|you're now)\s+(my|our)\s+(travel|trip|tour|road ?trip|holiday|vacation)\s+(guide|planner|agent|buddy|companion|assistant)\b`),
}
