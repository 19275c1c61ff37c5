package biometric

// Engine bundles the enrollment and verification halves of the biometric
// core behind one injection point.
type Engine struct {
	Assessor *Assessor
	Sessions *SessionManager
	Matcher  *Matcher
}

var BiometricEngine *Engine

// NewEngine wires the core components around a Store implementation.
func NewEngine(store Store, cfg Config) *Engine {
	assessor := NewAssessor(cfg.Quality)
	checker := NewUniquenessChecker(store, cfg.Uniqueness)
	return &Engine{
		Assessor: assessor,
		Sessions: NewSessionManager(store, assessor, checker, cfg),
		Matcher:  NewMatcher(store, cfg.Matcher),
	}
}

// InitialiseBiometricEngine sets up the package singleton used by the
// controller layer. The store is injected rather than referenced as ambient
// state so the core stays testable against fakes.
func InitialiseBiometricEngine(store Store) {
	BiometricEngine = NewEngine(store, DefaultConfig())
}
