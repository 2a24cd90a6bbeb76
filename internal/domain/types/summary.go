package types

import "strconv"

func summary(rated, ratable int) string {
	noun := "tracks"
	if ratable == 1 {
		noun = "track"
	}
	return strconv.Itoa(rated) + " of " + strconv.Itoa(ratable) + " " + noun + " rated"
}
