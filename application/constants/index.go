package constants

// presenza response codes
// these consist of 4 digit numbers
//
// the 1st 3 are randomly generated but represent specific scenarios
// 4th indicates if the response requires user interaction through a dialog
// box. 0 means it does not require. 1 means it requires.

var QUALITY_REJECTED uint = 4221         // prompt the operator to adjust the camera and retry the capture
var DUPLICATE_IDENTITY uint = 4391       // surface the conflicting student so staff can investigate
var INCOMPLETE_COVERAGE uint = 4130      // show which angles are still missing
var NOT_ENROLLED uint = 4510             // take the student to the enrollment flow
var SESSION_NOT_ACTIVE uint = 4140       // enrollment session expired or finished, start again
var ALREADY_ENROLLED uint = 4151         // ask staff to confirm an explicit re-enrollment
var VERIFICATION_RATE_LIMITED uint = 4291 // too many verification attempts, wait and retry

var REQUIRED_CAPTURE_ANGLES = []string{"FRONT", "LEFT", "RIGHT"}

// An active enrollment session with no activity for this many minutes is
// eligible for automatic cancellation by the sweep task.
var ENROLLMENT_SESSION_IDLE_MINUTES = 30

var MAX_VERIFICATION_ATTEMPTS_PER_MINUTE int64 = 6

var SUPPORT_EMAIL = "help@presenza.io"
