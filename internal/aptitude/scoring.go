package aptitude

// QuestionIDs returns the distinct question ids referenced by answers, for a
// single batched correct-option lookup.
func QuestionIDs(answers []Answer) []int64 {
	seen := make(map[int64]struct{}, len(answers))
	ids := make([]int64, 0, len(answers))
	for _, ans := range answers {
		if _, ok := seen[ans.QuestionID]; ok {
			continue
		}
		seen[ans.QuestionID] = struct{}{}
		ids = append(ids, ans.QuestionID)
	}
	return ids
}

// Score counts answers whose selected option matches the correct option.
// Answers for unknown question ids score 0; they are incorrect, not fatal.
// Order-independent: permuting answers never changes the result.
func Score(answers []Answer, correct map[int64]int) int {
	score := 0
	for _, ans := range answers {
		if want, ok := correct[ans.QuestionID]; ok && want == ans.SelectedOption {
			score++
		}
	}
	return score
}
