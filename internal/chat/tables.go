package chat

import "fmt"

// 挨拶文
const (
	GeneralGreeting        = "Hello! I'm EduBot, your AI learning assistant. How can I help you today?"
	CourseCreationGreeting = "Welcome to the course creation assistant! I'll help you set up a new course. What would you like to name your course?"
	courseGreetingFormat   = "Welcome to the %s chat! How can I help you with this course?"
)

// GenericCourseReply は応答テーブルを持たないコースの応答文。
const GenericCourseReply = "I'm here to help with your questions about this course."

const generalDefaultReply = `Based on the search results and common recommendations, here are some of the best places to study on campus:

1. Campus Library
   - Offers a quiet environment with various study spaces
   - Access to resources and reference materials
   - Often has private study rooms or carrels that can be reserved
   - Provides a focused atmosphere conducive to studying

2. Empty Classrooms
   - Quiet and distraction-free
   - Plenty of desk space
   - Good for individual or group study sessions

3. Student Lounges or Common Spaces
   - Comfortable seating options
   - Often less crowded than libraries
   - Can provide a change of scenery from dorm rooms

4. Coffee Shops on Campus
   - Offer a relaxed atmosphere with background noise
   - Access to caffeine and snacks
   - Can be good for light studying or reading

5. Outdoor Spaces (weather permitting)
   - Fresh air can help with focus and productivity
   - Campus quads or green spaces can be peaceful study spots

6. Dorm Study Rooms or Common Areas
   - Convenient for residents
   - Often quieter than individual dorm rooms

7. Academic Building Lobbies or Atriums
   - Can provide a different environment from typical study spots
   - Often have tables and seating areas

The best study spot will vary depending on individual preferences and study needs. It's recommended to try different locations to find what works best for you in terms of noise level, comfort, and productivity.`

const computerScienceDefaultReply = `Programming fundamentals are the foundational concepts and principles that guide how we write and structure code. These concepts are applicable across different programming languages and form the building blocks for more advanced programming techniques. Here are some key programming fundamentals:

Variables and Data Types:

Variables are used to store data, and data types define the kind of data a variable can hold (e.g., integers, floating-point numbers, strings, booleans).
Understanding how to choose the right data type for the task is essential for writing efficient code.
Control Structures:

These include conditionals (like if, else, switch) that help decide which code to execute based on certain conditions.
Loops (e.g., for, while) allow code to run repeatedly, useful for tasks like iterating through data or handling repetitive tasks.
Functions (or Methods):

Functions are blocks of code that perform a specific task and can be reused throughout a program.
Functions help in organizing code, reducing redundancy, and enhancing readability. Parameters and return values are key to how functions interact with other parts of the program.
Arrays and Lists:

These are data structures that store multiple values in a single variable. Arrays are fixed-size, while lists can grow dynamically.
Arrays and lists are essential for working with collections of data efficiently.
Object-Oriented Programming (OOP):

This programming paradigm uses "objects" to represent real-world entities, combining data (attributes) and functions (methods) that act on that data.
Core OOP concepts include classes, inheritance, polymorphism, encapsulation, and abstraction, which help in designing scalable, reusable, and maintainable systems.
Algorithms:

Algorithms are step-by-step instructions used to perform a task or solve a problem. Understanding how to write and optimize algorithms is key to solving complex programming challenges.
Common algorithms include sorting, searching, and recursive algorithms.
Error Handling:

It’s important to handle errors in a way that prevents a program from crashing unexpectedly. This is done using mechanisms like try-catch blocks (exception handling) in many languages.
Proper error handling improves the robustness and user experience of applications.
Debugging and Testing:

Debugging involves identifying and fixing errors (bugs) in your code.
Writing tests, like unit tests or integration tests, helps ensure that the code behaves as expected and makes it easier to spot and fix bugs early.
Memory Management:

Understanding how memory is allocated and freed is important for creating efficient programs.
This includes concepts like stack vs heap memory and garbage collection in some languages (e.g., Python, Java) or manual memory management (e.g., C).
Version Control:

Tools like Git are essential for tracking changes in code, collaborating with others, and managing different versions of a program.
Version control ensures that code changes are well-documented and easy to manage.
Mastering these fundamental concepts provides a strong foundation for tackling more complex problems and learning advanced topics in programming.`

const calculusDefaultReply = `Grade:

Multiple Choice Accuracy: 4/10 (Three incorrect answers)
Short Answer Clarity: 7/10 (Mostly correct but missing some depth)
Conceptual Depth: 7/10 (Good understanding but lacks depth in some areas)
Use of Examples: 7/10 (Uses examples but could be more detailed)
Overall Effort and Completeness: 8/10 (Well-attempted with minor gaps)
Total Score: 33/50
Feedback:

You have made a strong effort in answering the quiz, and your responses demonstrate a good foundational understanding of crash recovery in filesystems. However, there are a few areas where more precision and depth could improve your score.

For the multiple-choice section, you correctly answered some key questions but missed others. For instance, the correct drawback of using a linked list to manage free space is (b) It becomes scrambled over time, reducing contiguous allocation. Similarly, the block cache's purpose is to retain frequently accessed disk blocks in memory for faster access rather than storing deleted files. Lastly, fsck’s main purpose is to repair filesystem issues rather than just boosting I/O performance. Reviewing these concepts can strengthen your understanding.

Your short answers were clear and correctly explained the trade-offs between synchronous and delayed writes. However, you could have elaborated on how journaling filesystems mitigate data loss risks when explaining fsck’s role in resolving inconsistencies. Adding specific examples of how different filesystems handle these challenges (e.g., ext4 vs. NTFS) would enhance your response.

In the conceptual section, your understanding of crash recovery techniques like ordered writes and fsck is solid, but expanding on alternative methods like journaling or shadow paging would improve your answers. Also, your discussion on inode corruption risks was accurate, but mentioning how metadata consistency checks can prevent such issues would have added more depth.

Overall, this is a well-attempted quiz with good clarity and effort. Focus on refining technical accuracy and expanding explanations with concrete examples to improve further. Keep up the good work! 🚀


Do you want to send an email to the student?`

// GeneralResponder は汎用アシスタントの応答テーブルを返す。
func GeneralResponder() *Responder {
	return NewResponder(generalDefaultReply,
		KeywordRule("hello", "Hi there! How can I assist with your studies today?"),
		KeywordRule("help", "I can help with homework questions, explain concepts, provide study tips, or assist with research. What do you need help with?"),
		KeywordRule("assignment", "I'd be happy to help with your assignment. Could you provide more details about what you're working on?"),
		KeywordRule("exam", "Preparing for an exam? I can help you review key concepts, create practice questions, or develop study strategies."),
	)
}

// courseResponders はコースIDごとの応答テーブル。
var courseResponders = map[string]func() *Responder{
	"5": func() *Responder {
		return NewResponder(computerScienceDefaultReply,
			KeywordRule("assignment", "For the current programming assignment, you need to implement a simple algorithm using loops and conditionals. Would you like me to explain any specific part?"),
			KeywordRule("lecture", "The latest lecture covered programming fundamentals including variables, data types, and basic syntax. What specific concept would you like me to explain?"),
			KeywordRule("module", "This course has two modules: Introduction to Programming and Control Structures. Which one are you asking about?"),
		)
	},
	"6": func() *Responder {
		return NewResponder(calculusDefaultReply,
			KeywordRule("assignment", "The current calculus assignment focuses on derivative applications. Are you having trouble with a specific problem?"),
			KeywordRule("lecture", "The recent lecture covered the rules of differentiation, including the power rule, product rule, and chain rule. Which part would you like me to explain further?"),
			KeywordRule("yes", "Okay, I have sent an email to sujithramprasad@gmail.com"),
		)
	},
}

// CourseResponder はコース別の応答テーブルを返す。
// テーブルが無いコースは常に GenericCourseReply を返す。
func CourseResponder(courseID string) *Responder {
	if build, ok := courseResponders[courseID]; ok {
		return build()
	}
	return NewResponder(GenericCourseReply)
}

// CourseGreeting はコースチャットの挨拶文を返す。
func CourseGreeting(title string) string {
	return fmt.Sprintf(courseGreetingFormat, title)
}

// UploadNotice はファイル送信時にユーザー側へ表示する文。
func UploadNotice(filename string) string {
	return fmt.Sprintf("I've uploaded a file: %s", filename)
}

// GeneralUploadAck は汎用チャットでのファイル受領応答。
func GeneralUploadAck(filename string) string {
	return fmt.Sprintf("I've received your file: %s. How would you like me to help you with this document?", filename)
}

// CourseUploadAck はコースチャットでのファイル受領応答を返す関数を生成する。
func CourseUploadAck(courseTitle string) func(string) string {
	return func(filename string) string {
		return fmt.Sprintf("I've received your file: %s. How would you like me to help you with this document related to %s?", filename, courseTitle)
	}
}

// CourseMaterialUploadAck はコース作成中のファイル受領応答。
func CourseMaterialUploadAck(filename string) string {
	return fmt.Sprintf("Thanks for uploading %s. I'll use this as course material. Would you like to add more details about your course?", filename)
}
