package dict

// Surnames are common family names. They complete a name pair and, outside
// CommonWordSurnames, are redacted on their own.
var Surnames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
	"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
	"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	"Carter", "Roberts", "Gomez", "Phillips", "Turner", "Parker", "Evans", "Edwards",
	"Collins", "Stewart", "Morris", "Murphy", "Cook", "Rogers", "Morgan",
	"Patel", "Singh", "Khan", "Ali", "Mohammed", "Mohammad", "Abdullah", "Hussain",
	"Kim", "Park", "Chen", "Wang", "Zhang", "Lin", "Tran", "Ng", "Chaudhry", "Ahmad",
	"Iqbal", "Rahman", "Doe", "Roe",
}

// CommonWordSurnames double as ordinary words or clinical eponyms ("White
// count stable", "Walker at bedside", "Murphy sign negative"). They only
// count inside a name pair or after an honorific.
var CommonWordSurnames = []string{
	"Brown", "White", "Green", "Young", "King", "Hill", "Hall", "Park", "Cook",
	"Baker", "Walker", "Murphy", "Allen",
}

// FirstNames are common given names used as the first half of a name pair.
var FirstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "William", "Elizabeth",
	"David", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen",
	"Christopher", "Nancy", "Daniel", "Lisa", "Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra",
	"Donald", "Ashley", "Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
	"Kenneth", "Dorothy", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa", "Timothy", "Deborah",
	"Ronald", "Stephanie", "Edward", "Rebecca", "Jason", "Sharon", "Jeffrey", "Laura", "Ryan", "Cynthia",
	"Jacob", "Kathleen", "Gary", "Amy", "Nicholas", "Shirley", "Eric", "Angela", "Jonathan", "Helen",
	"Stephen", "Anna", "Larry", "Brenda", "Justin", "Pamela", "Scott", "Nicole", "Brandon", "Samantha",
	"Frank", "Katherine", "Benjamin", "Emma", "Gregory", "Ruth", "Samuel", "Christine", "Patrick", "Catherine",
	"Alexander", "Debra", "Jack", "Rachel", "Dennis", "Carolyn", "Jerry", "Janet", "Tyler", "Maria",
	"Mohammed", "Muhammad", "Ahmed", "Ahmad", "Omar", "Hassan", "Hussein", "Abdullah", "Fatima", "Aisha",
	"Amelia", "Priya", "Anjali", "Sofia", "Noor", "Amina", "Li", "Wei", "Min", "Hao",
	"Jin", "Sang", "Hye", "Yuki", "Mei", "Ravi", "Imran", "Farah", "Leila", "Zara",
	"Jane", "Ann", "Anne",
}

// Honorifics precede a capitalized name. Entries carry no trailing period;
// the matcher accepts one.
var Honorifics = []string{
	"Dr", "Drs", "Prof", "Mr", "Mrs", "Ms", "Mx", "Capt", "Captain", "Lt", "Lieutenant",
	"Sgt", "Sergeant", "Officer", "Chief", "Judge", "Sir", "Dame", "Madam", "Rev",
	"Reverend", "Father", "Fr", "Sister", "Brother", "Pastor", "Chaplain", "Rabbi", "Imam",
}

// FacilityTerms are multi-word facility names redacted wherever they occur.
var FacilityTerms = []string{
	"General Hospital",
	"Medical Center",
	"Children's Hospital",
	"Urgent Care",
	"Cardiology Clinic",
	"Dialysis Center",
	"Health System",
	"Cancer Institute",
	"Family Practice",
	"Primary Care",
	"Internal Medicine",
}

// NameStoplist holds clinical abbreviations and terms that look like names
// but never are. Compared after stripping punctuation and upper-casing.
var NameStoplist = []string{
	"CKD", "ESBL", "ICU", "BKA", "IDDM", "MRSA", "ASTHMA", "DIALYSIS", "MEROPENEM", "SEPSIS",
	"HYPERTENSION", "DIABETES", "E COLI", "HGB", "HCT", "POC", "IV",
	"COMPLAINT", "RESIDENT", "ATTENDING", "NURSE",
}
