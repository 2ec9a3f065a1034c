package content

// Clone returns a deep copy of s. The copy shares no slice backing arrays
// with s, so mutating either value never affects the other. The history
// manager relies on this to keep snapshots independent.
func (s State) Clone() State {
	out := s
	out.Features = cloneSlice(s.Features)
	out.Services = make([]Service, len(s.Services))
	for i, svc := range s.Services {
		svc.Bullets = cloneSlice(svc.Bullets)
		out.Services[i] = svc
	}
	if s.Services == nil {
		out.Services = nil
	}
	out.Gallery = Gallery{
		Categories: cloneSlice(s.Gallery.Categories),
		Items:      cloneSlice(s.Gallery.Items),
	}
	out.Footer.Links = cloneSlice(s.Footer.Links)
	out.Footer.Socials = cloneSlice(s.Footer.Socials)
	out.Navigation.Links = cloneSlice(s.Navigation.Links)
	return out
}

// cloneSlice copies a slice of values that hold no references themselves.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
