// Package seed loads the sample content set: three quizzes, the four-section
// skill diagnostic, and a test access code. Seeding is skipped when content
// already exists, so it is safe to run repeatedly.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/access"
	"github.com/quizforge/quizforge/internal/diagnostic"
	"github.com/quizforge/quizforge/internal/quiz"
)

type Seeder struct {
	quizzes     quiz.Store
	diagnostics diagnostic.Store
	codes       access.Store
}

func New(quizzes quiz.Store, diagnostics diagnostic.Store, codes access.Store) *Seeder {
	return &Seeder{quizzes: quizzes, diagnostics: diagnostics, codes: codes}
}

func (s *Seeder) Run(ctx context.Context) (string, error) {
	existing, err := s.quizzes.ListAll(ctx)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return "database already has quizzes, skipping seed", nil
	}

	for _, q := range sampleQuizzes() {
		if err := s.quizzes.Put(ctx, q); err != nil {
			return "", err
		}
	}

	if _, err := s.diagnostics.Active(ctx); errors.Is(err, diagnostic.ErrDiagnosticNotFound) {
		if err := s.diagnostics.Put(ctx, sampleDiagnostic()); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	if err := s.codes.CreateCode(ctx, access.Code{
		ID:          uuid.NewString(),
		Code:        "TEST-CODE-1234",
		Email:       "test@example.com",
		PurchasedAt: time.Now().UnixMilli(),
	}); err != nil {
		return "", err
	}

	return "seeded 3 quizzes, 1 diagnostic and 1 test access code (TEST-CODE-1234)", nil
}

func sampleQuizzes() []quiz.Quiz {
	return []quiz.Quiz{
		{
			ID:               uuid.NewString(),
			Title:            "Python Fundamentals",
			Description:      "Test your knowledge of Python basics including data types, loops, and functions.",
			Category:         "python-basics",
			Difficulty:       "easy",
			PassingScore:     70,
			EstimatedMinutes: 10,
			IsActive:         true,
			Questions: []quiz.Question{
				{
					ID:                 "py-1",
					Question:           "What is the output of print(type([]))?",
					Options:            []string{"<class 'list'>", "<class 'array'>", "<class 'tuple'>", "<class 'dict'>"},
					CorrectOptionIndex: 0,
					Explanation:        "In Python, [] creates an empty list, so type([]) returns <class 'list'>.",
				},
				{
					ID:                 "py-2",
					Question:           "Which keyword is used to define a function in Python?",
					Options:            []string{"function", "func", "def", "define"},
					CorrectOptionIndex: 2,
					Explanation:        "Python uses the 'def' keyword to define functions.",
				},
				{
					ID:                 "py-3",
					Question:           "What does the 'len()' function return for the string 'Hello'?",
					Options:            []string{"4", "5", "6", "Error"},
					CorrectOptionIndex: 1,
					Explanation:        "'Hello' has 5 characters, so len('Hello') returns 5.",
				},
				{
					ID:                 "py-4",
					Question:           "How do you start a comment in Python?",
					Options:            []string{"//", "/*", "#", "--"},
					CorrectOptionIndex: 2,
					Explanation:        "Python uses # for single-line comments.",
				},
				{
					ID:                 "py-5",
					Question:           "What is the result of 3 ** 2 in Python?",
					Options:            []string{"6", "9", "5", "Error"},
					CorrectOptionIndex: 1,
					Explanation:        "** is the exponentiation operator. 3 ** 2 = 3² = 9.",
				},
			},
		},
		{
			ID:               uuid.NewString(),
			Title:            "Arrays & Two Pointers",
			Description:      "Master the two-pointer technique for solving array problems efficiently.",
			Category:         "arrays",
			Difficulty:       "medium",
			PassingScore:     70,
			EstimatedMinutes: 15,
			IsActive:         true,
			Questions: []quiz.Question{
				{
					ID:                 "arr-1",
					Question:           "What is the time complexity of the two-pointer technique for finding a pair with a given sum in a sorted array?",
					Options:            []string{"O(n²)", "O(n log n)", "O(n)", "O(log n)"},
					CorrectOptionIndex: 2,
					Explanation:        "Two pointers traverse the array once from both ends, giving O(n) time complexity.",
				},
				{
					ID:                 "arr-2",
					Question:           "In the 'Container With Most Water' problem, why do we move the pointer at the shorter line?",
					Options:            []string{"To maximize width", "Moving the taller line can only decrease area", "Moving the shorter line might find a taller line", "It doesn't matter which pointer we move"},
					CorrectOptionIndex: 2,
					Explanation:        "The area is limited by the shorter line. Moving it gives a chance to find a taller line that could increase area.",
				},
				{
					ID:                 "arr-3",
					Question:           "For the 'Remove Duplicates from Sorted Array' problem, what does the slow pointer represent?",
					Options:            []string{"The current element being checked", "The position where the next unique element should go", "The last duplicate found", "The array length"},
					CorrectOptionIndex: 1,
					Explanation:        "The slow pointer tracks where to place the next unique element in-place.",
				},
				{
					ID:                 "arr-4",
					Question:           "What is the space complexity of the two-pointer approach?",
					Options:            []string{"O(n)", "O(log n)", "O(1)", "O(n²)"},
					CorrectOptionIndex: 2,
					Explanation:        "Two pointers only use a constant amount of extra space regardless of input size.",
				},
				{
					ID:                 "arr-5",
					Question:           "When should you NOT use the two-pointer technique?",
					Options:            []string{"When the array is sorted", "When you need to find pairs with a condition", "When you need to track all possible combinations", "When reversing an array in-place"},
					CorrectOptionIndex: 2,
					Explanation:        "Two pointers work by eliminating possibilities. If you need ALL combinations, you typically need O(n²) approaches.",
				},
			},
		},
		{
			ID:               uuid.NewString(),
			Title:            "Big O Complexity Analysis",
			Description:      "Understand time and space complexity for technical interviews.",
			Category:         "fundamentals",
			Difficulty:       "easy",
			PassingScore:     80,
			EstimatedMinutes: 10,
			IsActive:         true,
			Questions: []quiz.Question{
				{
					ID:                 "bigo-1",
					Question:           "What is the time complexity of accessing an element in an array by index?",
					Options:            []string{"O(n)", "O(1)", "O(log n)", "O(n²)"},
					CorrectOptionIndex: 1,
					Explanation:        "Array access by index is O(1) because arrays provide direct memory access.",
				},
				{
					ID:                 "bigo-2",
					Question:           "What is the time complexity of binary search?",
					Options:            []string{"O(n)", "O(1)", "O(log n)", "O(n log n)"},
					CorrectOptionIndex: 2,
					Explanation:        "Binary search halves the search space each iteration, giving O(log n).",
				},
				{
					ID:                 "bigo-3",
					Question:           "If you have nested loops where each iterates n times, what's the complexity?",
					Options:            []string{"O(n)", "O(2n)", "O(n²)", "O(n + n)"},
					CorrectOptionIndex: 2,
					Explanation:        "Nested loops multiply: n × n = O(n²).",
				},
				{
					ID:                 "bigo-4",
					Question:           "What is the time complexity of sorting using merge sort?",
					Options:            []string{"O(n)", "O(n²)", "O(n log n)", "O(log n)"},
					CorrectOptionIndex: 2,
					Explanation:        "Merge sort divides the array (log n levels) and merges at each level (n work), giving O(n log n).",
				},
				{
					ID:                 "bigo-5",
					Question:           "Which complexity is most efficient for large inputs?",
					Options:            []string{"O(n²)", "O(n log n)", "O(2^n)", "O(n!)"},
					CorrectOptionIndex: 1,
					Explanation:        "O(n log n) grows much slower than the others as n increases.",
				},
			},
		},
	}
}

func sampleDiagnostic() diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		ID:               uuid.NewString(),
		Title:            "Skill Assessment",
		Description:      "Assess your Python and problem-solving skills to get personalized recommendations.",
		Version:          1,
		EstimatedMinutes: 25,
		IsActive:         true,
		Sections: []diagnostic.Section{
			{
				Category:            "python-basics",
				CategoryDisplayName: "Python Fundamentals",
				Questions: []diagnostic.Question{
					{ID: "diag-py-1", Question: "What is the output of print(type([]))?", Options: []string{"<class 'list'>", "<class 'array'>", "<class 'tuple'>", "<class 'dict'>"}, CorrectOptionIndex: 0, Difficulty: "easy"},
					{ID: "diag-py-2", Question: "Which keyword is used to define a function in Python?", Options: []string{"function", "func", "def", "define"}, CorrectOptionIndex: 2, Difficulty: "easy"},
					{ID: "diag-py-3", Question: "What does the 'len()' function return for the string 'Hello'?", Options: []string{"4", "5", "6", "Error"}, CorrectOptionIndex: 1, Difficulty: "easy"},
					{ID: "diag-py-4", Question: "What is the result of 3 ** 2 in Python?", Options: []string{"6", "9", "5", "Error"}, CorrectOptionIndex: 1, Difficulty: "easy"},
					{ID: "diag-py-5", Question: "How do you create an empty dictionary in Python?", Options: []string{"[]", "{}", "()", "dict[]"}, CorrectOptionIndex: 1, Difficulty: "easy"},
				},
			},
			{
				Category:            "data-structures",
				CategoryDisplayName: "Data Structures",
				Questions: []diagnostic.Question{
					{ID: "diag-ds-1", Question: "What is the time complexity of accessing an element in an array by index?", Options: []string{"O(n)", "O(1)", "O(log n)", "O(n²)"}, CorrectOptionIndex: 1, Difficulty: "easy"},
					{ID: "diag-ds-2", Question: "Which data structure uses LIFO (Last In, First Out) principle?", Options: []string{"Queue", "Stack", "Linked List", "Tree"}, CorrectOptionIndex: 1, Difficulty: "easy"},
					{ID: "diag-ds-3", Question: "What is the time complexity of searching in a hash table (average case)?", Options: []string{"O(n)", "O(1)", "O(log n)", "O(n²)"}, CorrectOptionIndex: 1, Difficulty: "medium"},
					{ID: "diag-ds-4", Question: "Which data structure is best for implementing a priority queue?", Options: []string{"Array", "Linked List", "Heap", "Stack"}, CorrectOptionIndex: 2, Difficulty: "medium"},
					{ID: "diag-ds-5", Question: "What is the space complexity of a recursive function that makes n recursive calls?", Options: []string{"O(1)", "O(n)", "O(log n)", "O(n²)"}, CorrectOptionIndex: 1, Difficulty: "medium"},
				},
			},
			{
				Category:            "algorithms",
				CategoryDisplayName: "Algorithms",
				Questions: []diagnostic.Question{
					{ID: "diag-alg-1", Question: "What is the time complexity of binary search?", Options: []string{"O(n)", "O(1)", "O(log n)", "O(n log n)"}, CorrectOptionIndex: 2, Difficulty: "easy"},
					{ID: "diag-alg-2", Question: "Which sorting algorithm has O(n log n) average time complexity?", Options: []string{"Bubble Sort", "Selection Sort", "Merge Sort", "Insertion Sort"}, CorrectOptionIndex: 2, Difficulty: "easy"},
					{ID: "diag-alg-3", Question: "In the two-pointer technique, what typically needs to be true about the input array?", Options: []string{"It must be empty", "It must be sorted", "It must have even length", "It must contain only positive numbers"}, CorrectOptionIndex: 1, Difficulty: "medium"},
					{ID: "diag-alg-4", Question: "What is the time complexity of BFS and DFS for a graph with V vertices and E edges?", Options: []string{"O(V)", "O(E)", "O(V + E)", "O(V × E)"}, CorrectOptionIndex: 2, Difficulty: "medium"},
					{ID: "diag-alg-5", Question: "Which technique is best for solving the 'Maximum Subarray Sum' problem optimally?", Options: []string{"Brute Force", "Two Pointers", "Kadane's Algorithm", "Binary Search"}, CorrectOptionIndex: 2, Difficulty: "medium"},
				},
			},
			{
				Category:            "problem-solving",
				CategoryDisplayName: "Problem Solving Patterns",
				Questions: []diagnostic.Question{
					{ID: "diag-ps-1", Question: "The sliding window technique is most useful for problems involving:", Options: []string{"Searching in trees", "Contiguous subarrays/substrings", "Graph traversal", "Sorting"}, CorrectOptionIndex: 1, Difficulty: "medium"},
					{ID: "diag-ps-2", Question: "When should you use dynamic programming?", Options: []string{"When the problem has no pattern", "When there are overlapping subproblems", "When the input is unsorted", "When recursion is not allowed"}, CorrectOptionIndex: 1, Difficulty: "medium"},
					{ID: "diag-ps-3", Question: "What pattern is typically used for 'Find all pairs that sum to X' in a sorted array?", Options: []string{"Sliding Window", "Two Pointers", "Binary Search Tree", "Backtracking"}, CorrectOptionIndex: 1, Difficulty: "easy"},
					{ID: "diag-ps-4", Question: "Which approach is best for generating all permutations of a set?", Options: []string{"Dynamic Programming", "Greedy", "Backtracking", "Divide and Conquer"}, CorrectOptionIndex: 2, Difficulty: "medium"},
					{ID: "diag-ps-5", Question: "For problems asking 'minimum/maximum in k window', which pattern is most efficient?", Options: []string{"Two Pointers", "Sliding Window with Deque", "Binary Search", "Hash Map"}, CorrectOptionIndex: 1, Difficulty: "hard"},
				},
			},
		},
	}
}
