package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsLetterOrUnderscore(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

// IsIdentifier reports whether name is a valid decaf identifier: a letter or underscore followed by
// letters, digits or underscores.
func IsIdentifier(name string) bool {
	if name == "" || !IsLetterOrUnderscore(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !IsLetterOrUnderscoreOrNumber(name[i]) {
			return false
		}
	}
	return true
}

// SplitArraySuffix strips every trailing "[]" from a type name, returning the element name and the
// number of dimensions removed.
func SplitArraySuffix(typeName string) (string, int) {
	dims := 0
	for len(typeName) >= 2 && typeName[len(typeName)-2:] == "[]" {
		typeName = typeName[:len(typeName)-2]
		dims++
	}
	return typeName, dims
}
