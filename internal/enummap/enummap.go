// Package enummap translates between the human-facing enum spellings used
// at the API/CSV boundary and the canonical spellings stored in the
// database. Unmapped inputs pass through unchanged; rejecting unknown
// values is the validation layer's job.
package enummap

// BHKToCanonical converts a human bedroom-class value ("1".."4", "Studio")
// to its stored spelling.
func BHKToCanonical(bhk string) string {
	switch bhk {
	case "1":
		return "ONE"
	case "2":
		return "TWO"
	case "3":
		return "THREE"
	case "4":
		return "FOUR"
	}
	return bhk
}

// BHKToHuman converts a stored bedroom-class value back to its human spelling.
func BHKToHuman(bhk string) string {
	switch bhk {
	case "ONE":
		return "1"
	case "TWO":
		return "2"
	case "THREE":
		return "3"
	case "FOUR":
		return "4"
	}
	return bhk
}

// TimelineToCanonical converts a human timeline value to its stored spelling.
func TimelineToCanonical(timeline string) string {
	switch timeline {
	case "0-3m":
		return "ZERO_TO_THREE_MONTHS"
	case "3-6m":
		return "THREE_TO_SIX_MONTHS"
	case ">6m":
		return "MORE_THAN_SIX_MONTHS"
	}
	return timeline
}

// TimelineToHuman converts a stored timeline value back to its human spelling.
func TimelineToHuman(timeline string) string {
	switch timeline {
	case "ZERO_TO_THREE_MONTHS":
		return "0-3m"
	case "THREE_TO_SIX_MONTHS":
		return "3-6m"
	case "MORE_THAN_SIX_MONTHS":
		return ">6m"
	}
	return timeline
}

// SourceToCanonical converts a human lead source to its stored spelling.
func SourceToCanonical(source string) string {
	if source == "Walk-in" {
		return "Walk_in"
	}
	return source
}

// SourceToHuman converts a stored lead source back to its human spelling.
func SourceToHuman(source string) string {
	if source == "Walk_in" {
		return "Walk-in"
	}
	return source
}

// StatusToCanonical converts a human status to its stored spelling.
func StatusToCanonical(status string) string {
	if status == "New" {
		return "NEW"
	}
	return status
}

// StatusToHuman converts a stored status back to its human spelling.
func StatusToHuman(status string) string {
	if status == "NEW" {
		return "New"
	}
	return status
}
