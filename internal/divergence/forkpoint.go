// Package divergence computes how a feature branch relates to candidate
// upstream branches: where each pair forked, where their merge base sits,
// and how far each side has moved since.
package divergence

// alignForkPoint finds the fork point of two first-parent ancestry chains,
// each given tip-to-root. Aligning both chains at the root end, the fork
// point is the last commit on which they still agree; once the chains
// diverge they never rejoin on the first-parent path, so a single scan from
// the root suffices. Returns false when the chains share no commit at all
// (unrelated histories).
func alignForkPoint(feature, upstream []string) (string, bool) {
	i := len(feature) - 1
	j := len(upstream) - 1

	forkPoint := ""
	found := false
	for i >= 0 && j >= 0 && feature[i] == upstream[j] {
		forkPoint = feature[i]
		found = true
		i--
		j--
	}
	return forkPoint, found
}
