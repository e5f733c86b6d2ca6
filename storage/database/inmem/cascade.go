package inmemdb

import "github.com/volatiletech/null/v8"

// The delete helpers mirror the ON DELETE rules of the SQL schema.
// They must be called with the write lock held.

func clearRef(ref *null.Int, id int) {
	if ref.Valid && ref.Int == id {
		*ref = null.Int{}
	}
}

func copyIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	return append(out, ids...)
}

func withoutID(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (db *DB) deleteUser(id int) {
	delete(db.users, id)
	for lid, l := range db.logs {
		clearRef(&l.ActorID, id)
		db.logs[lid] = l
	}
}

func (db *DB) deleteStudent(id int) {
	delete(db.students, id)
	for uid, u := range db.users {
		if u.StudentID.Valid && u.StudentID.Int == id {
			db.deleteUser(uid)
		}
	}
	for rid, r := range db.attendance {
		if r.StudentID == id {
			delete(db.attendance, rid)
		}
	}
	for pid, p := range db.payments {
		if p.StudentID == id {
			delete(db.payments, pid)
		}
	}
}

func (db *DB) deleteSchedule(id int) {
	delete(db.schedules, id)
	for rid, r := range db.attendance {
		if r.ScheduleID == id {
			delete(db.attendance, rid)
		}
	}
}

func (db *DB) deleteAcademy(id int) {
	delete(db.academies, id)
	for sid, cs := range db.schedules {
		if cs.AcademyID == id {
			db.deleteSchedule(sid)
		}
	}
	for sid, s := range db.students {
		clearRef(&s.AcademyID, id)
		db.students[sid] = s
	}
	for pid, p := range db.professors {
		clearRef(&p.AcademyID, id)
		db.professors[pid] = p
	}
	for uid, u := range db.users {
		clearRef(&u.AcademyID, id)
		db.users[uid] = u
	}
}

func (db *DB) deleteProfessor(id int) {
	delete(db.professors, id)
	for aid, a := range db.academies {
		clearRef(&a.ProfessorID, id)
		a.AssistantIDs = withoutID(a.AssistantIDs, id)
		db.academies[aid] = a
	}
	for sid, cs := range db.schedules {
		clearRef(&cs.ProfessorID, id)
		cs.AssistantIDs = withoutID(cs.AssistantIDs, id)
		db.schedules[sid] = cs
	}
}

func (db *DB) deleteGraduation(id int) {
	delete(db.graduations, id)
	for sid, s := range db.students {
		clearRef(&s.BeltID, id)
		db.students[sid] = s
	}
	for pid, p := range db.professors {
		clearRef(&p.GraduationID, id)
		db.professors[pid] = p
	}
	for sid, cs := range db.schedules {
		clearRef(&cs.RequiredGraduationID, id)
		db.schedules[sid] = cs
	}
}
