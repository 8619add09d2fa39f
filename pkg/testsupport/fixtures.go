// Package testsupport provides prompt doubles shared by tests across the
// module. Hosts embedding the library can reuse them for their own tests.
package testsupport

import "context"

// ScriptedChooser returns a predetermined selection (or error) and records
// every label list it was shown.
type ScriptedChooser struct {
	Choice string
	Err    error
	Calls  [][]string
}

// ChooseOne records labels and plays back the scripted result.
func (c *ScriptedChooser) ChooseOne(ctx context.Context, message string, labels []string) (string, error) {
	shown := make([]string, len(labels))
	copy(shown, labels)
	c.Calls = append(c.Calls, shown)

	if c.Err != nil {
		return "", c.Err
	}
	return c.Choice, nil
}

// RecordingNotifier captures informational messages.
type RecordingNotifier struct {
	Messages []string
}

// Info records msg.
func (n *RecordingNotifier) Info(ctx context.Context, msg string) error {
	n.Messages = append(n.Messages, msg)
	return nil
}
