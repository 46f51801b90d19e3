package codeforces

// tta derives the numeric anti-automation token the submit form expects,
// from the live value of the 39ce7 cookie. The transform mirrors the
// site's own client-side script and must be preserved exactly: a rolling
// accumulation mod 1009 with positional adjustments at every 2nd and 3rd
// index, folded back into [0,1009). Any deviation and the site silently
// drops the submission.
func tta(cookie string) int {
	t := 0
	for c := 0; c < len(cookie); c++ {
		t = (t + (c+1)*(c+2)*int(cookie[c])) % 1009
		if c%3 == 0 {
			t++
		}
		if c%2 == 0 {
			t *= 2
		}
		if c > 0 {
			t -= (int(cookie[c/2]) / 2) * (t % 5)
		}
		t = ((t % 1009) + 1009) % 1009
	}
	return t
}
