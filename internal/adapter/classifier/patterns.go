package classifier

import "regexp"

// complexIndicators are counted once per family, two or more families mean
// the request needs planning rather than a lookup
var complexIndicators = []namedPattern{
	{name: "planning", regex: regexp.MustCompile(`(?i)\b(plan|planning|organi[sz]e|schedule|itinerary|optimi[sz]e|strategy|coordinate|arrange)\b`)},
	{name: "sequencing", regex: regexp.MustCompile(`(?i)\b(and then|after that|afterwards|followed by|step by step|finally)\b`)},
	{name: "budget", regex: regexp.MustCompile(`(?i)(\$\s?\d|\b(under|within|below|less than|no more than|at most|max(imum)?( of)?)\s+\$?\d+|\bbudget (of|is|under)\b)`)},
	{name: "superlative", regex: regexp.MustCompile(`(?i)\b(best|cheapest|fastest|shortest|most|least|optimal|ideal)\b`)},
	{name: "conditional", regex: regexp.MustCompile(`(?i)\b(if|unless|otherwise|in case|depending on|whether)\b`)},
	{name: "plural_quantity", regex: regexp.MustCompile(`(?i)\b(multiple|several|various|many|each of|every|all the)\b`)},
}

// greetingPattern only matches when the whole message is a pleasantry
var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|howdy|yo|hiya|g'?day|good (morning|afternoon|evening)|thanks|thank you|thx|ty|cheers|ok|okay|k|sure|yes|yeah|yep|no|nope|cool|great|awesome|perfect|nice|got it|sounds good|will do|bye|goodbye|see ya)(\s+(there|pam|so much|a lot|mate))?[\s!.,?]*$`)

// toolKeywords are counted per occurrence
var toolKeywords = regexp.MustCompile(`(?i)\b(add|create|update|delete|find|search|show|get|list|book|reserve|cancel)\b`)

type namedPattern struct {
	regex *regexp.Regexp
	name  string
}
