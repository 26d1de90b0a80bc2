package model

import "time"

func setString(changes map[string]any, column string, v *string) {
	if v != nil {
		changes[column] = *v
	}
}

func setInt(changes map[string]any, column string, v *int) {
	if v != nil {
		changes[column] = *v
	}
}

func setFloat(changes map[string]any, column string, v *float64) {
	if v != nil {
		changes[column] = *v
	}
}

func setTime(changes map[string]any, column string, v *time.Time) {
	if v != nil {
		changes[column] = *v
	}
}
