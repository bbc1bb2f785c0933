package git

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// IsRepository reports whether the working directory sits inside a Git
// repository.
func IsRepository() bool {
	return exec.Command("git", "rev-parse", "--is-inside-work-tree").Run() == nil
}

// UpdateGitignore appends the given entries to .gitignore unless they are
// already listed. The entries cover the credential-bearing config file and
// the local database volume, neither of which belongs in version control.
// Outside a Git repository nothing is written; a reminder is printed instead.
func UpdateGitignore(entries []string) error {
	if !IsRepository() {
		fmt.Println("\nNote: Not inside a Git repository. If you initialize one later,")
		fmt.Printf("remember to add the following to your .gitignore: %s\n", strings.Join(entries, ", "))
		return nil
	}

	existing := make(map[string]bool)
	if data, err := os.ReadFile(".gitignore"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			existing[strings.TrimSpace(line)] = true
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("could not read .gitignore: %w", err)
	}

	var missing []string
	for _, entry := range entries {
		if !existing[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		fmt.Println("\n✓ .gitignore already contains the necessary entries.")
		return nil
	}

	file, err := os.OpenFile(".gitignore", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open .gitignore: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString("\n" + strings.Join(missing, "\n")); err != nil {
		return fmt.Errorf("failed to write to .gitignore: %w", err)
	}

	fmt.Printf("\n✓ Added the following entries to .gitignore: %s\n", strings.Join(missing, ", "))
	return nil
}
